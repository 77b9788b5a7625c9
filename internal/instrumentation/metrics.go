package instrumentation

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

// Metric attribute keys.
const (
	attrOperation = "operation"
	attrStatus    = "status"
	attrResult    = "result"
)

// Result values for attempt-style metrics.
const (
	ResultSuccess = "success"
	ResultError   = "error"
)

// Metrics provides methods for recording observability metrics.
type Metrics struct {
	zoomAPIOperationsTotal   metric.Int64Counter
	zoomAPIOperationDuration metric.Float64Histogram
	tokenRefreshTotal        metric.Int64Counter
}

// NewMetrics creates a new Metrics instance with all metrics initialized.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}

	var err error

	m.zoomAPIOperationsTotal, err = meter.Int64Counter(
		"zoom_api_operations_total",
		metric.WithDescription("Total number of Zoom API operations"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create zoom_api_operations_total counter: %w", err)
	}

	m.zoomAPIOperationDuration, err = meter.Float64Histogram(
		"zoom_api_operation_duration_seconds",
		metric.WithDescription("Zoom API operation duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create zoom_api_operation_duration_seconds histogram: %w", err)
	}

	m.tokenRefreshTotal, err = meter.Int64Counter(
		"zoom_token_refresh_total",
		metric.WithDescription("Total number of Zoom OAuth token refresh attempts"),
		metric.WithUnit("{attempt}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create zoom_token_refresh_total counter: %w", err)
	}

	return m, nil
}

// Noop returns a Metrics recorder backed by a noop meter. Recording through
// it is safe and free; it is the default when no provider is configured.
func Noop() *Metrics {
	m, _ := NewMetrics(noop.NewMeterProvider().Meter("zoombridge"))
	return m
}

// RecordAPIOperation records a completed Zoom API operation.
// The operation label is the adapter-level operation name, not the URL
// path, to keep cardinality bounded.
func (m *Metrics) RecordAPIOperation(ctx context.Context, operation, status string, seconds float64) {
	attrs := metric.WithAttributes(
		attribute.String(attrOperation, operation),
		attribute.String(attrStatus, status),
	)
	m.zoomAPIOperationsTotal.Add(ctx, 1, attrs)
	m.zoomAPIOperationDuration.Record(ctx, seconds, attrs)
}

// RecordTokenRefresh records an OAuth token refresh attempt.
func (m *Metrics) RecordTokenRefresh(ctx context.Context, result string) {
	m.tokenRefreshTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String(attrResult, result),
	))
}
