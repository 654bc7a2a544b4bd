// Package logger provides structured logging for the application.
//
// It builds JSON loggers on log/slog and carries request-scoped loggers
// through context.Context, so that handlers, services and stores log with
// the trace ID attached by the HTTP middleware.
package logger
