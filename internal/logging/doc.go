// Package logging assembles the structured slog loggers used across subocr.
//
// It owns the console and JSON handlers, level and output plumbing, and
// context helpers that tag log lines with the batch correlation ID. Logs go to
// stderr by default so SRT output on stdout stays clean. A no-op logger is
// provided for tests and library callers that do not care about logs.
package logging
