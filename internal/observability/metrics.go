package observability

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Recorder records calculator metrics.
// Use NewRecorder() for OTel metrics or Noop{} when disabled.
type Recorder interface {
	// RecordCompute records a computed line with the kind of its result.
	RecordCompute(ctx context.Context, kind string, duration time.Duration)

	// RecordCommand records a slash command.
	RecordCommand(ctx context.Context, name string)
}

// otelMetrics implements Recorder using OpenTelemetry.
type otelMetrics struct {
	lines       metric.Int64Counter
	lineLatency metric.Float64Histogram
	commands    metric.Int64Counter
}

var (
	defaultMetrics     *otelMetrics
	defaultMetricsOnce sync.Once
	defaultMetricsErr  error
)

// getDefaultMetrics returns the default OTel metrics instance.
// Lazily initializes the metrics on first call.
func getDefaultMetrics() (*otelMetrics, error) {
	defaultMetricsOnce.Do(func() {
		defaultMetrics, defaultMetricsErr = newOtelMetrics()
	})
	return defaultMetrics, defaultMetricsErr
}

func newOtelMetrics() (*otelMetrics, error) {
	meter := otel.Meter("smartcalc")

	lines, err := meter.Int64Counter("smartcalc.lines",
		metric.WithDescription("Number of computed lines by result kind"),
	)
	if err != nil {
		return nil, err
	}

	lineLatency, err := meter.Float64Histogram("smartcalc.line.latency_us",
		metric.WithDescription("Line computation latency in microseconds"),
		metric.WithUnit("us"),
	)
	if err != nil {
		return nil, err
	}

	commands, err := meter.Int64Counter("smartcalc.commands",
		metric.WithDescription("Number of slash commands"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		lines:       lines,
		lineLatency: lineLatency,
		commands:    commands,
	}, nil
}

// NewRecorder returns a Recorder that uses OpenTelemetry.
// If metrics initialization fails, returns a no-op recorder.
//
// The recorder uses the global OTel meter provider, which must be configured
// before the first call.
func NewRecorder() Recorder {
	m, err := getDefaultMetrics()
	if err != nil {
		slog.Warn("metrics initialization failed, using no-op recorder",
			slog.String("error", err.Error()))
		return Noop{}
	}
	return m
}

// RecordCompute records a computed line.
func (m *otelMetrics) RecordCompute(ctx context.Context, kind string, duration time.Duration) {
	attrs := metric.WithAttributes(attribute.String("kind", kind))
	m.lines.Add(ctx, 1, attrs)
	m.lineLatency.Record(ctx, float64(duration.Microseconds()), attrs)
}

// RecordCommand records a slash command.
func (m *otelMetrics) RecordCommand(ctx context.Context, name string) {
	m.commands.Add(ctx, 1, metric.WithAttributes(attribute.String("command", name)))
}

// Noop is a Recorder that does nothing.
type Noop struct{}

var _ Recorder = Noop{}

// RecordCompute does nothing.
func (Noop) RecordCompute(_ context.Context, _ string, _ time.Duration) {}

// RecordCommand does nothing.
func (Noop) RecordCommand(_ context.Context, _ string) {}
