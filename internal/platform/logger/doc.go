// Package logger provides structured logging functionality for the
// application: slog setup from configuration and context helpers for
// carrying a request-scoped logger through call chains.
package logger
