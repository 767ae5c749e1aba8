package metrics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Config configures the metrics provider.
type Config struct {
	Enabled          bool
	ExporterEndpoint string
	ExporterProtocol string
	ServiceName      string
	Environment      string
}

// Metrics exposes application-level instruments for the fulfillment engine.
type Metrics struct {
	orders             metric.Int64Counter
	stockClaims        metric.Int64Counter
	sideEffectFailures metric.Int64Counter
	historyWrites      metric.Int64Counter
	templateFetches    metric.Int64Counter
}

// NewProvider configures and registers the meter provider.
func NewProvider(lc fx.Lifecycle, cfg Config, log *zap.Logger) (metric.MeterProvider, error) {
	if !cfg.Enabled {
		provider := noop.NewMeterProvider()
		otel.SetMeterProvider(provider)
		return provider, nil
	}

	exporter, err := newExporter(cfg.ExporterProtocol, cfg.ExporterEndpoint)
	if err != nil {
		return nil, err
	}

	reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(10*time.Second))
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	otel.SetMeterProvider(provider)

	if lc != nil {
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				if log != nil {
					log.Info("shutting down meter provider")
				}
				return provider.Shutdown(ctx)
			},
		})
	}

	if log != nil {
		log.Info("metrics initialized",
			zap.String("endpoint", cfg.ExporterEndpoint),
			zap.String("protocol", cfg.ExporterProtocol),
		)
	}

	return provider, nil
}

// New configures the domain metrics instruments.
func New(cfg Config, provider metric.MeterProvider) (*Metrics, error) {
	name := strings.TrimSpace(cfg.ServiceName)
	if name == "" {
		name = "superapp-admin"
	}
	meter := provider.Meter(name)

	orders, err := meter.Int64Counter("superapp_orders_total")
	if err != nil {
		return nil, err
	}
	stockClaims, err := meter.Int64Counter("superapp_stock_claims_total")
	if err != nil {
		return nil, err
	}
	sideEffectFailures, err := meter.Int64Counter("superapp_side_effect_failures_total")
	if err != nil {
		return nil, err
	}
	historyWrites, err := meter.Int64Counter("superapp_history_writes_total")
	if err != nil {
		return nil, err
	}
	templateFetches, err := meter.Int64Counter("superapp_template_fetches_total")
	if err != nil {
		return nil, err
	}

	return &Metrics{
		orders:             orders,
		stockClaims:        stockClaims,
		sideEffectFailures: sideEffectFailures,
		historyWrites:      historyWrites,
		templateFetches:    templateFetches,
	}, nil
}

// RecordOrder counts fulfilled and rejected orders per product type.
func (m *Metrics) RecordOrder(ctx context.Context, productType, status string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(
		attribute.String("product_type", strings.TrimSpace(productType)),
		attribute.String("status", strings.TrimSpace(status)),
	)
	m.orders.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordStockClaim counts allocation attempts per outcome (claimed,
// race_lost, out_of_stock, unavailable).
func (m *Metrics) RecordStockClaim(ctx context.Context, outcome string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("outcome", strings.TrimSpace(outcome)))
	m.stockClaims.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordSideEffectFailure counts tolerated downstream failures per effect.
func (m *Metrics) RecordSideEffectFailure(ctx context.Context, effect string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("effect", strings.TrimSpace(effect)))
	m.sideEffectFailures.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordHistoryWrite counts audit inserts per status so the accepted
// inconsistency window stays visible to operators.
func (m *Metrics) RecordHistoryWrite(ctx context.Context, status string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("status", strings.TrimSpace(status)))
	m.historyWrites.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordTemplateFetch counts remote template downloads per result.
func (m *Metrics) RecordTemplateFetch(ctx context.Context, status string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("status", strings.TrimSpace(status)))
	m.templateFetches.Add(ctx, 1, metric.WithAttributes(attrs...))
}

func newExporter(protocol, endpoint string) (sdkmetric.Exporter, error) {
	protocol = strings.ToLower(strings.TrimSpace(protocol))
	switch protocol {
	case "http", "http/protobuf":
		opts := []otlpmetrichttp.Option{}
		if endpoint != "" {
			opts = append(opts, otlpmetrichttp.WithEndpoint(endpoint))
		}
		return otlpmetrichttp.New(context.Background(), opts...)
	case "grpc", "grpc/protobuf", "":
		opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithInsecure()}
		if endpoint != "" {
			opts = append(opts, otlpmetricgrpc.WithEndpoint(endpoint))
		}
		return otlpmetricgrpc.New(context.Background(), opts...)
	default:
		return nil, fmt.Errorf("unsupported OTLP protocol %q", protocol)
	}
}

var allowedLabelKeys = map[attribute.Key]struct{}{
	"product_type": {},
	"status":       {},
	"outcome":      {},
	"effect":       {},
	"endpoint":     {},
	"status_code":  {},
}

// FilterAttributes strips disallowed labels to keep metrics low-cardinality.
func FilterAttributes(attrs ...attribute.KeyValue) []attribute.KeyValue {
	filtered := make([]attribute.KeyValue, 0, len(attrs))
	for _, attr := range attrs {
		if _, ok := allowedLabelKeys[attr.Key]; !ok {
			continue
		}
		filtered = append(filtered, attr)
	}
	return filtered
}
