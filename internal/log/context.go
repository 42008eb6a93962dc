package log

import (
	"context"

	"github.com/google/uuid"
)

type (
	requestIDKey    struct{}
	barbershopIDKey struct{}
)

func NewRequestID() string {
	return uuid.NewString()
}

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFromContext returns "" if absent.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// WithBarbershopID tags the context with the tenant a request acts for.
func WithBarbershopID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, barbershopIDKey{}, id)
}

func BarbershopIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(barbershopIDKey{}).(string)
	return id
}
