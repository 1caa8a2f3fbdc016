// Package observability holds the logging, tracing and metrics plumbing shared
// by every module.
package observability

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

type correlationKey struct{}

// WithCorrelationID stores id on ctx. An empty id is replaced by a new uuid.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	if id == "" {
		id = uuid.NewString()
	}
	return context.WithValue(ctx, correlationKey{}, id)
}

// CorrelationIDFrom returns the correlation id stored on ctx, if any.
func CorrelationIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(correlationKey{}).(string)
	return id
}

// CorrelationID is the log attribute for the request correlation id.
func CorrelationID(ctx context.Context) slog.Attr {
	return slog.String("correlation_id", CorrelationIDFrom(ctx))
}

// String is a string log attribute.
func String(key, value string) slog.Attr { return slog.String(key, value) }

// Int64 is an int64 log attribute.
func Int64(key string, value int64) slog.Attr { return slog.Int64(key, value) }

// Int is an int log attribute.
func Int(key string, value int) slog.Attr { return slog.Int(key, value) }

// Any is a free-form log attribute.
func Any(key string, value any) slog.Attr { return slog.Any(key, value) }

// Error is the log attribute for an error; nil errors log as an empty string.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "")
	}
	return slog.String("error", err.Error())
}
