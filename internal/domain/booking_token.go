package domain

import (
	"errors"
	"time"
)

var (
	ErrTokenNotFound    = errors.New("booking token not found")
	ErrTokenExpired     = errors.New("booking token expired")
	ErrTokenAlreadyUsed = errors.New("booking token already used")
	ErrTokenRateLimited = errors.New("too many validation attempts for booking token")
)

// TokenState is the outcome of evaluating a booking token at a given moment.
// The zero value is not a valid state; use TokenValid.
type TokenState string

const (
	TokenValid       TokenState = "valid"
	TokenNotFound    TokenState = "not_found"
	TokenExpired     TokenState = "expired"
	TokenAlreadyUsed TokenState = "already_used"
	TokenRateLimited TokenState = "rate_limited"
)

// Err maps a rejected state to its sentinel error. TokenValid maps to nil.
func (s TokenState) Err() error {
	switch s {
	case TokenValid:
		return nil
	case TokenExpired:
		return ErrTokenExpired
	case TokenAlreadyUsed:
		return ErrTokenAlreadyUsed
	case TokenRateLimited:
		return ErrTokenRateLimited
	default:
		return ErrTokenNotFound
	}
}

type BookingToken struct {
	ID            string
	TokenHash     string // SHA-256 hex of the plaintext, never the plaintext itself
	BarbershopID  string
	BarberID      *string // nil = customer may pick any barber of the shop
	CustomerPhone string
	ExpiresAt     time.Time
	UsedAt        *time.Time
	SingleUse     bool

	ValidationAttempts int
	LastAttemptAt      *time.Time

	CreatedAt time.Time
}

// BookingSession is what a successful validation grants: a short-lived right
// to book on behalf of CustomerPhone at BarbershopID.
type BookingSession struct {
	BarbershopID  string
	BarberID      *string
	CustomerPhone string
	TokenID       string
}
