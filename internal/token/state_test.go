package token_test

import (
	"testing"
	"time"

	"github.com/ErlanBelekov/barbershop-booking/internal/domain"
	"github.com/ErlanBelekov/barbershop-booking/internal/token"
	"github.com/stretchr/testify/assert"
)

func ptr[T any](v T) *T { return &v }

func TestEvaluate(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	live := func() *domain.BookingToken {
		return &domain.BookingToken{
			ID:        "tok-1",
			ExpiresAt: now.Add(10 * time.Minute),
			SingleUse: true,
		}
	}

	tests := []struct {
		name  string
		token func() *domain.BookingToken
		want  domain.TokenState
	}{
		{
			name:  "missing record",
			token: func() *domain.BookingToken { return nil },
			want:  domain.TokenNotFound,
		},
		{
			name:  "fresh token",
			token: live,
			want:  domain.TokenValid,
		},
		{
			name: "expired",
			token: func() *domain.BookingToken {
				tok := live()
				tok.ExpiresAt = now.Add(-time.Second)
				return tok
			},
			want: domain.TokenExpired,
		},
		{
			name: "expiring exactly now is still valid",
			token: func() *domain.BookingToken {
				tok := live()
				tok.ExpiresAt = now
				return tok
			},
			want: domain.TokenValid,
		},
		{
			name: "used single-use",
			token: func() *domain.BookingToken {
				tok := live()
				tok.UsedAt = ptr(now.Add(-time.Minute))
				return tok
			},
			want: domain.TokenAlreadyUsed,
		},
		{
			name: "used multi-use",
			token: func() *domain.BookingToken {
				tok := live()
				tok.SingleUse = false
				tok.UsedAt = ptr(now.Add(-time.Minute))
				return tok
			},
			want: domain.TokenValid,
		},
		{
			name: "five attempts, last one just now",
			token: func() *domain.BookingToken {
				tok := live()
				tok.ValidationAttempts = 5
				tok.LastAttemptAt = ptr(now)
				return tok
			},
			want: domain.TokenRateLimited,
		},
		{
			name: "five attempts, last one two minutes ago",
			token: func() *domain.BookingToken {
				tok := live()
				tok.ValidationAttempts = 5
				tok.LastAttemptAt = ptr(now.Add(-2 * time.Minute))
				return tok
			},
			want: domain.TokenValid,
		},
		{
			name: "five attempts without a recorded last attempt",
			token: func() *domain.BookingToken {
				tok := live()
				tok.ValidationAttempts = 5
				return tok
			},
			want: domain.TokenRateLimited,
		},
		{
			name: "four attempts never rate limit",
			token: func() *domain.BookingToken {
				tok := live()
				tok.ValidationAttempts = 4
				tok.LastAttemptAt = ptr(now)
				return tok
			},
			want: domain.TokenValid,
		},
		{
			name: "rate limit wins over expiry",
			token: func() *domain.BookingToken {
				tok := live()
				tok.ExpiresAt = now.Add(-time.Hour)
				tok.ValidationAttempts = 7
				tok.LastAttemptAt = ptr(now.Add(-10 * time.Second))
				return tok
			},
			want: domain.TokenRateLimited,
		},
		{
			name: "expiry wins over use state",
			token: func() *domain.BookingToken {
				tok := live()
				tok.ExpiresAt = now.Add(-time.Hour)
				tok.UsedAt = ptr(now.Add(-2 * time.Hour))
				return tok
			},
			want: domain.TokenExpired,
		},
		{
			name: "elapsed rate-limit window falls through to expiry",
			token: func() *domain.BookingToken {
				tok := live()
				tok.ExpiresAt = now.Add(-time.Minute)
				tok.ValidationAttempts = 9
				tok.LastAttemptAt = ptr(now.Add(-5 * time.Minute))
				return tok
			},
			want: domain.TokenExpired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, token.Evaluate(tt.token(), now))
		})
	}
}

func TestTokenState_Err(t *testing.T) {
	assert.NoError(t, domain.TokenValid.Err())
	assert.ErrorIs(t, domain.TokenNotFound.Err(), domain.ErrTokenNotFound)
	assert.ErrorIs(t, domain.TokenExpired.Err(), domain.ErrTokenExpired)
	assert.ErrorIs(t, domain.TokenAlreadyUsed.Err(), domain.ErrTokenAlreadyUsed)
	assert.ErrorIs(t, domain.TokenRateLimited.Err(), domain.ErrTokenRateLimited)
}
