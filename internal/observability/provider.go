package observability

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

// Provider is an in-process meter provider. Totals are logged when it is
// shut down rather than exported.
type Provider struct {
	reader *sdkmetric.ManualReader
	mp     *sdkmetric.MeterProvider
	level  slog.Level
}

// NewProvider creates a Provider and installs it as the global meter
// provider. Call it before NewRecorder. Totals are logged at level, so a
// logger's minimum level is the natural choice to make sure they appear.
func NewProvider(level slog.Level) *Provider {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	otel.SetMeterProvider(mp)
	return &Provider{reader: reader, mp: mp, level: level}
}

// Shutdown logs the collected totals to logger and stops the provider.
func (p *Provider) Shutdown(ctx context.Context, logger *slog.Logger) error {
	var rm metricdata.ResourceMetrics
	if err := p.reader.Collect(ctx, &rm); err != nil {
		return fmt.Errorf("collect metrics: %w", err)
	}
	if logger != nil {
		for _, sm := range rm.ScopeMetrics {
			for _, m := range sm.Metrics {
				logMetric(ctx, logger, p.level, m)
			}
		}
	}
	if err := p.mp.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown meter provider: %w", err)
	}
	return nil
}

func logMetric(ctx context.Context, logger *slog.Logger, level slog.Level, m metricdata.Metrics) {
	switch data := m.Data.(type) {
	case metricdata.Sum[int64]:
		for _, dp := range data.DataPoints {
			logger.Log(ctx, level, "metric",
				slog.String("name", m.Name),
				slog.String("attributes", attrString(dp.Attributes)),
				slog.Int64("value", dp.Value),
			)
		}
	case metricdata.Histogram[float64]:
		for _, dp := range data.DataPoints {
			logger.Log(ctx, level, "metric",
				slog.String("name", m.Name),
				slog.String("attributes", attrString(dp.Attributes)),
				slog.Uint64("count", dp.Count),
				slog.Float64("sum", dp.Sum),
			)
		}
	}
}

func attrString(set attribute.Set) string {
	return set.Encoded(attribute.DefaultEncoder())
}
