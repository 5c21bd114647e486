package logging

import (
	"context"
	"log/slog"

	"maqamat/internal/services"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldRunID identifies a single render run.
	FieldRunID = "run_id"
	// FieldStage names the pipeline stage (load, assemble, render, tidy, verify).
	FieldStage = "stage"
	// FieldLanguage is the language tag of the page being rendered.
	FieldLanguage = "language"
	// FieldMaqam is the maqam name a log line refers to.
	FieldMaqam = "maqam"
	// FieldField names the maqam data field that failed (tonic, ghammaz_option1, ...).
	FieldField = "field"
	// FieldExpression is the raw combination expression.
	FieldExpression = "expression"
	// FieldURL is the URL of a fetched reference page.
	FieldURL = "url"
	// FieldPath is a filesystem path written or read.
	FieldPath = "path"
	// FieldEventType classifies warnings and errors for filtering.
	FieldEventType = "event_type"
	// FieldErrorHint suggests a next step to the operator.
	FieldErrorHint = "error_hint"
	// FieldImpact is the user-facing consequence of a warning.
	FieldImpact = "impact"
)

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 3)
	if id, ok := services.RunIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldRunID, id))
	}
	if stage, ok := services.StageFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldStage, stage))
	}
	if lang, ok := services.LanguageFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldLanguage, lang))
	}
	return fields
}

// WithContext returns a logger augmented with structured fields derived from the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(Args(fields...)...)
}
