package email

import (
	"context"
	"strings"

	"github.com/Syaif05/superapp-admin-web/internal/config"
	orderdomain "github.com/Syaif05/superapp-admin-web/internal/order/domain"
	"github.com/Syaif05/superapp-admin-web/internal/providers/google"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("providers.email",
	fx.Provide(NewFromConfig),
	fx.Provide(NewSender),
)

func NewFromConfig(cfg config.Config, log *zap.Logger) (Provider, error) {
	log = log.Named("providers.email")

	switch strings.ToLower(strings.TrimSpace(cfg.Mail.Provider)) {
	case "gmail":
		if !cfg.Google.Configured() {
			log.Warn("gmail selected without google credentials, mail disabled")
			return &NoOpProvider{Log: log}, nil
		}
		svc, err := google.NewGmailService(context.Background(), cfg.Google, cfg.Mail.From)
		if err != nil {
			return nil, err
		}
		return NewGmail(svc), nil
	case "smtp":
		return NewSMTP(SMTPConfig{
			Host:     cfg.Mail.SMTPHost,
			Port:     cfg.Mail.SMTPPort,
			Username: cfg.Mail.SMTPUsername,
			Password: cfg.Mail.SMTPPassword,
		}), nil
	default:
		log.Warn("mail provider not configured, mail disabled")
		return &NoOpProvider{Log: log}, nil
	}
}

// sender binds the configured From address onto the provider.
type sender struct {
	provider Provider
	from     string
}

func NewSender(cfg config.Config, provider Provider) orderdomain.MailSender {
	return &sender{provider: provider, from: cfg.Mail.From}
}

func (s *sender) Send(ctx context.Context, to, subject, htmlBody string) error {
	return s.provider.Send(ctx, s.from, to, subject, htmlBody)
}
