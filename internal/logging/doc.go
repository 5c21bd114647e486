// Package logging assembles structured slog loggers for the maqamat CLI.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so render code tags log lines
// with the run ID, stage, and language automatically. A no-op logger is
// provided for tests and for callers that pass a nil logger.
package logging
