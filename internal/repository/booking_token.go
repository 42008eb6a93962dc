package repository

import (
	"context"
	"time"

	"github.com/ErlanBelekov/barbershop-booking/internal/domain"
)

type CreateBookingTokenInput struct {
	TokenHash     string
	BarbershopID  string
	BarberID      *string
	CustomerPhone string
	ExpiresAt     time.Time
	SingleUse     bool
}

type BookingTokenRepository interface {
	Create(ctx context.Context, input CreateBookingTokenInput) (*domain.BookingToken, error)

	// FindByHash returns (nil, nil) when no token has this hash.
	FindByHash(ctx context.Context, tokenHash string) (*domain.BookingToken, error)

	// IncrementAttempts bumps validation_attempts and sets last_attempt_at = at.
	IncrementAttempts(ctx context.Context, id string, at time.Time) error

	// MarkUsed stamps used_at only if it is still NULL. Returns false when
	// another validator got there first.
	MarkUsed(ctx context.Context, id string, at time.Time) (bool, error)

	// DeleteExpired removes up to limit tokens that expired before cutoff.
	DeleteExpired(ctx context.Context, cutoff time.Time, limit int) (int, error)
}
