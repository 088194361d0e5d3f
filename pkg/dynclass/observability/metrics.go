package observability

import (
	"context"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MetricsRecorder records dynclass metrics.
// Use NewMetricsRecorder() for OTel metrics or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordCreated records construction of a record.
	RecordCreated(ctx context.Context, className string)

	// RecordFieldAdded records a field joining a class schema and the new schema size.
	RecordFieldAdded(ctx context.Context, className, field string, schemaSize int)

	// RecordRejection records a rejected operation by error kind.
	RecordRejection(ctx context.Context, className, kind string)
}

// otelMetrics implements MetricsRecorder using OpenTelemetry.
type otelMetrics struct {
	recordsCreated metric.Int64Counter
	fieldsAdded    metric.Int64Counter
	schemaSize     metric.Int64Histogram
	rejections     metric.Int64Counter
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

// newOtelMetrics creates a new OTel metrics instance.
func newOtelMetrics() (*otelMetrics, error) {
	meter := otel.Meter("dynclass")

	recordsCreated, err := meter.Int64Counter("dynclass.records.created",
		metric.WithDescription("Number of records constructed"),
	)
	if err != nil {
		return nil, err
	}

	fieldsAdded, err := meter.Int64Counter("dynclass.schema.fields_added",
		metric.WithDescription("Number of fields added to class schemas"),
	)
	if err != nil {
		return nil, err
	}

	schemaSize, err := meter.Int64Histogram("dynclass.schema.size",
		metric.WithDescription("Class schema size after each field addition"),
		metric.WithUnit("{field}"),
	)
	if err != nil {
		return nil, err
	}

	rejections, err := meter.Int64Counter("dynclass.record.rejections",
		metric.WithDescription("Number of rejected record operations"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		recordsCreated: recordsCreated,
		fieldsAdded:    fieldsAdded,
		schemaSize:     schemaSize,
		rejections:     rejections,
	}, nil
}

// NewMetricsRecorder returns a MetricsRecorder that uses OpenTelemetry.
// If metrics initialization fails, returns a no-op recorder.
//
// The recorder uses the global OTel meter provider. Configure the provider
// before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetMeterProvider(yourProvider)
func NewMetricsRecorder() MetricsRecorder {
	m, err := getDefaultMetrics()
	if err != nil {
		slog.Warn("metrics initialization failed, using no-op recorder",
			slog.String("error", err.Error()))
		return NoopMetrics{}
	}
	return m
}

// RecordCreated records construction of a record.
func (m *otelMetrics) RecordCreated(ctx context.Context, className string) {
	m.recordsCreated.Add(ctx, 1, metric.WithAttributes(
		attribute.String("class", className),
	))
}

// RecordFieldAdded records a schema addition.
func (m *otelMetrics) RecordFieldAdded(ctx context.Context, className, field string, schemaSize int) {
	m.fieldsAdded.Add(ctx, 1, metric.WithAttributes(
		attribute.String("class", className),
		attribute.String("field", field),
	))
	m.schemaSize.Record(ctx, int64(schemaSize), metric.WithAttributes(
		attribute.String("class", className),
	))
}

// RecordRejection records a rejected operation.
func (m *otelMetrics) RecordRejection(ctx context.Context, className, kind string) {
	m.rejections.Add(ctx, 1, metric.WithAttributes(
		attribute.String("class", className),
		attribute.String("kind", kind),
	))
}
