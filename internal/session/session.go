// Package session mints and verifies the short-lived credential a customer
// holds after redeeming a booking link.
package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/ErlanBelekov/barbershop-booking/internal/domain"
	"github.com/golang-jwt/jwt/v5"
)

const (
	DefaultTTL = 30 * time.Minute
	CookieName = "booking_session"
	issuer     = "barbershop-booking"
)

var ErrInvalidSession = errors.New("booking session is invalid or expired")

type claims struct {
	BarbershopID  string  `json:"bsid"`
	BarberID      *string `json:"bid,omitempty"`
	CustomerPhone string  `json:"phone"`
	jwt.RegisteredClaims
}

type Manager struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

func NewManager(key []byte, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{key: key, ttl: ttl, now: time.Now}
}

func (m *Manager) TTL() time.Duration { return m.ttl }

// Sign returns an HS256 JWT carrying s. The token ID is the subject.
func (m *Manager) Sign(s *domain.BookingSession) (string, error) {
	now := m.now()
	c := claims{
		BarbershopID:  s.BarbershopID,
		BarberID:      s.BarberID,
		CustomerPhone: s.CustomerPhone,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   s.TokenID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(m.key)
	if err != nil {
		return "", fmt.Errorf("sign session: %w", err)
	}
	return signed, nil
}

func (m *Manager) Parse(raw string) (*domain.BookingSession, error) {
	var c claims
	_, err := jwt.ParseWithClaims(raw, &c, func(t *jwt.Token) (any, error) {
		return m.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return nil, ErrInvalidSession
	}
	if c.BarbershopID == "" || c.CustomerPhone == "" {
		return nil, ErrInvalidSession
	}

	return &domain.BookingSession{
		BarbershopID:  c.BarbershopID,
		BarberID:      c.BarberID,
		CustomerPhone: c.CustomerPhone,
		TokenID:       c.Subject,
	}, nil
}
