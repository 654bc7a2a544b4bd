package shared

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"strconv"
	"sync/atomic"
	"time"
)

// ContextKey is the type of request context keys owned by this package.
type ContextKey string

const (
	// TraceIDKey is the key for the trace ID in the request context
	TraceIDKey ContextKey = "traceID"

	// TraceIDLength is the number of random bytes in a trace ID
	TraceIDLength = 16 // 32 hex characters

	// TraceIDHeader is the response header echoing the trace ID
	TraceIDHeader = "X-Trace-ID"
)

var fallbackCounter atomic.Uint64

// SetTraceID adds a fresh trace ID to the context.
func SetTraceID(ctx context.Context) context.Context {
	return WithTraceID(ctx, generateTraceID())
}

// WithTraceID adds the given trace ID to the context.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, TraceIDKey, traceID)
}

// GetTraceID retrieves the trace ID from the context.
// If no trace ID exists, it returns an empty string.
func GetTraceID(ctx context.Context) string {
	traceID, ok := ctx.Value(TraceIDKey).(string)
	if !ok {
		return ""
	}
	return traceID
}

// generateTraceID returns a random 32-character hex string. When the system
// random source fails it falls back to a time and counter based ID, which is
// unique per process but not unpredictable.
func generateTraceID() string {
	b := make([]byte, TraceIDLength)
	if _, err := rand.Read(b); err != nil {
		slog.Error("failed to generate random trace ID",
			slog.String("error", err.Error()),
			slog.String("fallback", "time-based generation"))
		return strconv.FormatInt(time.Now().UnixNano(), 16) + "-" +
			strconv.FormatUint(fallbackCounter.Add(1), 16)
	}
	return hex.EncodeToString(b)
}
