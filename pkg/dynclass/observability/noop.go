package observability

import "context"

// NoopMetrics is a MetricsRecorder that does nothing.
// Use when metrics are disabled to avoid overhead.
type NoopMetrics struct{}

// Compile-time interface check.
var _ MetricsRecorder = NoopMetrics{}

// RecordCreated does nothing.
func (NoopMetrics) RecordCreated(_ context.Context, _ string) {}

// RecordFieldAdded does nothing.
func (NoopMetrics) RecordFieldAdded(_ context.Context, _, _ string, _ int) {}

// RecordRejection does nothing.
func (NoopMetrics) RecordRejection(_ context.Context, _, _ string) {}
