package observability

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// Metrics holds the counters the conversation pipeline reports into
type Metrics struct {
	provider *sdkmetric.MeterProvider

	ChatTurns          metric.Int64Counter
	CrisisFlags        metric.Int64Counter
	ResponderFailures  metric.Int64Counter
	ClassifierFailures metric.Int64Counter
}

// Setup initializes the Prometheus metrics exporter and registers the
// pipeline counters. Metrics are served via Handler on the main router.
func Setup(serviceName string) (*Metrics, error) {
	exp, err := otelprom.New()
	if err != nil {
		return nil, err
	}

	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(exp))
	otel.SetMeterProvider(provider)

	meter := provider.Meter(serviceName)

	m := &Metrics{provider: provider}

	if m.ChatTurns, err = meter.Int64Counter("chat_turns_total",
		metric.WithDescription("Conversation turns handled by the pipeline")); err != nil {
		return nil, err
	}
	if m.CrisisFlags, err = meter.Int64Counter("crisis_flags_total",
		metric.WithDescription("Turns short-circuited by the crisis gate")); err != nil {
		return nil, err
	}
	if m.ResponderFailures, err = meter.Int64Counter("responder_failures_total",
		metric.WithDescription("Responder errors recovered with the fallback reply")); err != nil {
		return nil, err
	}
	if m.ClassifierFailures, err = meter.Int64Counter("classifier_failures_total",
		metric.WithDescription("Turns failed because the crisis classifier errored")); err != nil {
		return nil, err
	}

	return m, nil
}

// Handler exposes the Prometheus scrape endpoint
func (m *Metrics) Handler() http.Handler {
	return promhttp.Handler()
}

// Shutdown flushes the meter provider
func (m *Metrics) Shutdown(ctx context.Context) error {
	if m.provider == nil {
		return nil
	}
	return m.provider.Shutdown(ctx)
}
