// Package observability provides structured logging and metrics for dynclass.
//
// Features:
//   - Structured logging via slog (Go stdlib)
//   - Metrics via OpenTelemetry
//
// Both are opt-in. A nil logger disables logging and NoopMetrics disables
// metrics.
package observability

import (
	"log/slog"
)

// EnrichLogger adds class context to a logger.
// Returns a new logger with class and class_id fields.
//
// Example:
//
//	enriched := EnrichLogger(logger, "Person", id.String())
//	enriched.Debug("doing work") // includes class, class_id
func EnrichLogger(logger *slog.Logger, className, classID string) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With(
		slog.String("class", className),
		slog.String("class_id", classID),
	)
}

// LogClassDefined logs the definition of a record class.
func LogClassDefined(logger *slog.Logger, className, parent string) {
	if logger == nil {
		return
	}
	logger.Debug("record class defined",
		slog.String("class", className),
		slog.String("parent", parent),
	)
}

// LogFieldAdded logs a field joining a class schema.
// logger is expected to carry the class context from EnrichLogger.
func LogFieldAdded(logger *slog.Logger, field string, schemaSize int) {
	if logger == nil {
		return
	}
	logger.Debug("schema field added",
		slog.String("field", field),
		slog.Int("schema_size", schemaSize),
	)
}

// LogMutationRejected logs a rejected write (frozen record, bad arity).
// logger is expected to carry the class context from EnrichLogger.
func LogMutationRejected(logger *slog.Logger, field, op string, err error) {
	if logger == nil {
		return
	}
	logger.Warn("record mutation rejected",
		slog.String("field", field),
		slog.String("operation", op),
		slog.String("error", err.Error()),
	)
}
