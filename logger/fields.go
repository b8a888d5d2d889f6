package logger

import (
	"context"

	"go.uber.org/zap"
)

// Standard field names for consistent structured logging across edtf.
// Use these constants instead of raw strings to ensure consistency.
const (
	// Components
	FieldComponent = "component"
	FieldOperation = "operation"

	// Expressions
	FieldExpression = "expression" // raw EDTF text as supplied
	FieldNormalized = "normalized" // canonical rendering
	FieldStatus     = "status"     // valid, invalid, pass, fail
	FieldKind       = "kind"       // ParseError kind
	FieldMode       = "mode"       // list mode

	// Catalog
	FieldCatalogID = "catalog_id"
	FieldLabel     = "label"

	// Files
	FieldFile = "file"
	FieldLine = "line"
	FieldPath = "path"

	// Timing and counts
	FieldDurationMS = "duration_ms"
	FieldCount      = "count"
	FieldPassed     = "passed"
	FieldFailed     = "failed"

	// Errors
	FieldError = "error"

	FieldSymbol = "symbol"
)

type contextKey string

const (
	componentKey contextKey = "logger_component"
	fileKey      contextKey = "logger_file"
)

// WithComponent adds a component name to the context for logging
func WithComponent(ctx context.Context, component string) context.Context {
	return context.WithValue(ctx, componentKey, component)
}

// WithFile adds the file being processed to the context for logging
func WithFile(ctx context.Context, path string) context.Context {
	return context.WithValue(ctx, fileKey, path)
}

// FieldsFromContext extracts logging fields from context.
// Returns key-value pairs suitable for use with Infow/Errorw/etc.
func FieldsFromContext(ctx context.Context) []interface{} {
	var fields []interface{}

	if component, ok := ctx.Value(componentKey).(string); ok && component != "" {
		fields = append(fields, FieldComponent, component)
	}
	if file, ok := ctx.Value(fileKey).(string); ok && file != "" {
		fields = append(fields, FieldFile, file)
	}

	return fields
}

// LoggerFromContext returns base with fields extracted from context.
func LoggerFromContext(ctx context.Context, base *zap.SugaredLogger) *zap.SugaredLogger {
	if base == nil {
		base = Logger
	}
	fields := FieldsFromContext(ctx)
	if len(fields) == 0 {
		return base
	}
	return base.With(fields...)
}

// ComponentLogger returns a named logger for a specific component.
//
//	store := catalog.NewStore(db, logger.ComponentLogger("catalog"))
func ComponentLogger(name string) *zap.SugaredLogger {
	return Logger.Named(name)
}
