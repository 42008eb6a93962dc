package session

import (
	"testing"
	"time"

	"github.com/ErlanBelekov/barbershop-booking/internal/domain"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "session-test-secret-32-characters!"

func fixedClock(t time.Time) func() time.Time { return func() time.Time { return t } }

func TestSignThenParse(t *testing.T) {
	m := NewManager([]byte(testKey), 0)
	barber := "barber-1"
	in := &domain.BookingSession{
		BarbershopID:  "shop-1",
		BarberID:      &barber,
		CustomerPhone: "+5511999999999",
		TokenID:       "tok-1",
	}

	raw, err := m.Sign(in)
	require.NoError(t, err)

	out, err := m.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestParse_ExpiresAfterThirtyMinutes(t *testing.T) {
	start := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	m := NewManager([]byte(testKey), 0)
	m.now = fixedClock(start)

	raw, err := m.Sign(&domain.BookingSession{BarbershopID: "shop-1", CustomerPhone: "+5511999999999", TokenID: "tok-1"})
	require.NoError(t, err)

	m.now = fixedClock(start.Add(29 * time.Minute))
	_, err = m.Parse(raw)
	require.NoError(t, err)

	m.now = fixedClock(start.Add(31 * time.Minute))
	_, err = m.Parse(raw)
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestParse_WrongKey(t *testing.T) {
	raw, err := NewManager([]byte("another-secret-that-is-32-chars!!"), 0).
		Sign(&domain.BookingSession{BarbershopID: "shop-1", CustomerPhone: "+5511999999999"})
	require.NoError(t, err)

	_, err = NewManager([]byte(testKey), 0).Parse(raw)
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestParse_RejectsNoneAlgorithm(t *testing.T) {
	tok := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"bsid":  "shop-1",
		"phone": "+5511999999999",
		"iss":   issuer,
		"exp":   time.Now().Add(time.Hour).Unix(),
	})
	raw, err := tok.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewManager([]byte(testKey), 0).Parse(raw)
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestParse_MissingTenant(t *testing.T) {
	m := NewManager([]byte(testKey), 0)
	raw, err := m.Sign(&domain.BookingSession{CustomerPhone: "+5511999999999", TokenID: "tok-1"})
	require.NoError(t, err)

	_, err = m.Parse(raw)
	assert.ErrorIs(t, err, ErrInvalidSession)
}
