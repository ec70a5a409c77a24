package logger

import (
	"strings"

	"go.uber.org/zap"
)

const (
	FieldProvider  = "llm_provider"
	FieldModel     = "llm_model"
	FieldComponent = "component"
)

// nonEmpty returns string fields for the pairs whose value is set.
func nonEmpty(pairs ...string) []zap.Field {
	fields := make([]zap.Field, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		if v := strings.TrimSpace(pairs[i+1]); v != "" {
			fields = append(fields, zap.String(pairs[i], v))
		}
	}
	return fields
}

// WithLLM tags log with the language model provider and model. A nil log
// yields a no-op logger.
func WithLLM(log *zap.Logger, provider, model string) *zap.Logger {
	if log == nil {
		return zap.NewNop()
	}
	return log.With(nonEmpty(FieldProvider, provider, FieldModel, model)...)
}

// Named returns a child logger for one component of the assistant.
func Named(log *zap.Logger, component string) *zap.Logger {
	if log == nil {
		return zap.NewNop()
	}
	return log.With(nonEmpty(FieldComponent, component)...)
}
