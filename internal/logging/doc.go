// Package logging assembles the structured slog loggers used by menumerge.
//
// It owns the console and JSON handlers, level parsing, and output routing
// (stdout plus an optional log file), and exposes context helpers so every
// line emitted during a reconciliation run carries its run_id. NewNop supplies
// a discarding logger for tests and library callers that do not log.
package logging
