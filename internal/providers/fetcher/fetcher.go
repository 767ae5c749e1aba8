// Package fetcher downloads remote notification templates.
package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	orderdomain "github.com/Syaif05/superapp-admin-web/internal/order/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// maxTemplateBytes caps a remote template body.
const maxTemplateBytes = 1 << 20

type HTTPFetcher struct {
	client *http.Client
	log    *zap.Logger
}

func New(log *zap.Logger) orderdomain.TemplateFetcher {
	return &HTTPFetcher{
		client: &http.Client{Timeout: 30 * time.Second},
		log:    log.Named("providers.fetcher"),
	}
}

func (f *HTTPFetcher) FetchText(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("template fetch: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxTemplateBytes))
	if err != nil {
		return "", err
	}
	return string(body), nil
}

var Module = fx.Module("providers.fetcher",
	fx.Provide(New),
)
