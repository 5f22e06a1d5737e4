// Package reqctx carries per-request values that every log record should include.
package reqctx

import (
	"context"

	"github.com/google/uuid"
)

type (
	requestIDKey  struct{}
	identityIDKey struct{}
)

// NewRequestID generates a random UUID v4 request ID.
func NewRequestID() string {
	return uuid.NewString()
}

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID returns "" if absent.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// WithIdentityID records the authenticated caller. Set by the auth middleware.
func WithIdentityID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, identityIDKey{}, id)
}

func IdentityID(ctx context.Context) string {
	id, _ := ctx.Value(identityIDKey{}).(string)
	return id
}
