// Package email delivers rendered notifications through the Gmail API,
// plain SMTP or a development no-op.
package email

import (
	"context"

	"go.uber.org/zap"
)

type Provider interface {
	Send(ctx context.Context, from, to, subject, htmlBody string) error
}

type NoOpProvider struct {
	Log *zap.Logger
}

func (p *NoOpProvider) Send(ctx context.Context, from, to, subject, htmlBody string) error {
	if p.Log != nil {
		p.Log.Debug("mail disabled, dropping message",
			zap.String("to", to),
			zap.String("subject", subject),
		)
	}
	return nil
}
