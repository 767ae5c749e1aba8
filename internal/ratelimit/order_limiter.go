package ratelimit

import (
	"context"
	"fmt"
	"strings"

	"github.com/Syaif05/superapp-admin-web/internal/config"
	redis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const keyOrder = "order:fulfill:%s"

// OrderLimiter throttles the fulfillment endpoints per caller. Redis
// backs the bucket when configured; otherwise a process-local bucket is
// used.
type OrderLimiter struct {
	enabled bool

	bucket *TokenBucket
	memory *memoryLimiter

	rate  float64
	burst int
}

func NewOrderLimiter(cfg config.Config, log *zap.Logger) *OrderLimiter {
	limitCfg := cfg.RateLimit
	if !limitCfg.Enabled {
		return &OrderLimiter{enabled: false}
	}

	rate := limitCfg.OrderRate
	if rate <= 0 {
		rate = 1
	}
	burst := limitCfg.OrderBurst
	if burst <= 0 {
		burst = 5
	}

	limiter := &OrderLimiter{
		enabled: true,
		rate:    rate,
		burst:   burst,
	}

	if addr := strings.TrimSpace(limitCfg.RedisAddr); addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: limitCfg.RedisPassword,
			DB:       limitCfg.RedisDB,
		})
		limiter.bucket = NewTokenBucket(client)
		log.Named("ratelimit").Info("order rate limiter using redis",
			zap.String("addr", addr),
			zap.Float64("rate", rate),
			zap.Int("burst", burst),
		)
		return limiter
	}

	limiter.memory = newMemoryLimiter(rate, burst)
	log.Named("ratelimit").Warn("order rate limiter using in-process bucket")
	return limiter
}

// Allow consumes one token for key. Failing open keeps orders flowing
// when Redis is unreachable.
func (l *OrderLimiter) Allow(ctx context.Context, key string) *Result {
	if l == nil || !l.enabled || key == "" {
		return &Result{Allowed: true}
	}

	if l.bucket != nil {
		res, err := l.bucket.Allow(ctx, fmt.Sprintf(keyOrder, key), l.rate, l.burst)
		if err != nil {
			return &Result{Allowed: true}
		}
		return res
	}
	return l.memory.Allow(key)
}
