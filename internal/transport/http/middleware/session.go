package middleware

import (
	"net/http"

	"github.com/ErlanBelekov/barbershop-booking/internal/domain"
	ctxlog "github.com/ErlanBelekov/barbershop-booking/internal/log"
	"github.com/ErlanBelekov/barbershop-booking/internal/session"
	"github.com/gin-gonic/gin"
)

const (
	errUnauthorized = "Unauthorized"
	sessionKey      = "bookingSession"
)

type sessionParser interface {
	Parse(raw string) (*domain.BookingSession, error)
}

// Session reads the booking session cookie, verifies it and stores the
// session in the gin context. The barbershop is also attached to the request
// context so every log line of the request carries it.
func Session(sessions sessionParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := c.Cookie(session.CookieName)
		if err != nil || raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errUnauthorized, "code": "UNAUTHORIZED"})
			return
		}

		s, err := sessions.Parse(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errUnauthorized, "code": "UNAUTHORIZED"})
			return
		}

		c.Set(sessionKey, s)
		c.Request = c.Request.WithContext(ctxlog.WithBarbershopID(c.Request.Context(), s.BarbershopID))
		c.Next()
	}
}

// SessionFromContext returns the session stored by Session.
func SessionFromContext(c *gin.Context) (*domain.BookingSession, bool) {
	v, ok := c.Get(sessionKey)
	if !ok {
		return nil, false
	}
	s, ok := v.(*domain.BookingSession)
	return s, ok && s != nil
}
