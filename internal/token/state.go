package token

import (
	"time"

	"github.com/ErlanBelekov/barbershop-booking/internal/domain"
)

const (
	MaxValidationAttempts = 5
	RateLimitWindow       = 60 * time.Second
)

// Evaluate decides whether t can be redeemed at now. Checks run in a fixed
// order and the first failing one wins: rate limit, expiry, then use state.
func Evaluate(t *domain.BookingToken, now time.Time) domain.TokenState {
	if t == nil {
		return domain.TokenNotFound
	}

	if t.ValidationAttempts >= MaxValidationAttempts {
		// a missing last attempt is treated as inside the window
		if t.LastAttemptAt == nil || now.Sub(*t.LastAttemptAt) < RateLimitWindow {
			return domain.TokenRateLimited
		}
	}

	if now.After(t.ExpiresAt) {
		return domain.TokenExpired
	}

	if t.SingleUse && t.UsedAt != nil {
		return domain.TokenAlreadyUsed
	}

	return domain.TokenValid
}
