// Package requestcontext provides HTTP-independent context accessors for
// request-scoped values set by middleware and read by services.
package requestcontext

import (
	"context"
	"time"
)

type (
	requestIDKey   struct{}
	requestTimeKey struct{}
	editorKey      struct{}
)

// RequestID retrieves the request ID from the context, or "" when unset.
func RequestID(ctx context.Context) string {
	if v, ok := ctx.Value(requestIDKey{}).(string); ok {
		return v
	}
	return ""
}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// Now returns the request-scoped time, falling back to time.Now().
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(requestTimeKey{}).(time.Time); ok {
		return t
	}
	return time.Now()
}

// WithTime injects a specific time into a context.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, requestTimeKey{}, t)
}

// Editor returns the subject of the authenticated editor token, if any.
func Editor(ctx context.Context) string {
	if v, ok := ctx.Value(editorKey{}).(string); ok {
		return v
	}
	return ""
}

func WithEditor(ctx context.Context, subject string) context.Context {
	return context.WithValue(ctx, editorKey{}, subject)
}
