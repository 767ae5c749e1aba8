package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// effect is one post-sale action. Effects never fail an order; their
// outcome is logged and counted.
type effect struct {
	name string
	run  func(ctx context.Context) error
}

type effectResult struct {
	name string
	err  error
}

// dispatch runs the effects of one transaction concurrently, each
// bounded by timeout, and returns every outcome.
func (s *Service) dispatch(ctx context.Context, txID string, timeout time.Duration, effects []effect) []effectResult {
	results := make([]effectResult, len(effects))

	var wg sync.WaitGroup
	for i, e := range effects {
		wg.Add(1)
		go func(i int, e effect) {
			defer wg.Done()

			effectCtx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			err := e.run(effectCtx)
			results[i] = effectResult{name: e.name, err: err}
			if err != nil {
				s.metrics.RecordSideEffectFailure(ctx, e.name)
				s.log.Error("side effect failed",
					zap.String("transaction_id", txID),
					zap.String("effect", e.name),
					zap.Error(err),
				)
			}
		}(i, e)
	}
	wg.Wait()

	return results
}
