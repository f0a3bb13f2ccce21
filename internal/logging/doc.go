// Package logging assembles structured slog loggers and formatting helpers used
// across markpool.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and exposes attribute helpers so grader and coordinator code tag
// log lines with the same keys (worker, item, question, run id). The package
// also provides a no-op logger for tests and wiring code that cannot fail.
//
// Prefer these constructors over hand-rolled slog setup so every component
// emits data with the same shape and routing.
package logging
