package middleware

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// InternalToken protects integration endpoints with a static bearer token.
// Missing or malformed credentials get 401, a wrong token gets 403.
func InternalToken(expected string, logger *slog.Logger) gin.HandlerFunc {
	want := []byte(expected)
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		scheme, got, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "bearer") || got == "" {
			logger.WarnContext(c.Request.Context(), "internal auth rejected", "reason", "missing_auth", "ip", c.ClientIP())
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errUnauthorized, "code": "UNAUTHORIZED"})
			return
		}

		if subtle.ConstantTimeCompare([]byte(got), want) != 1 {
			logger.WarnContext(c.Request.Context(), "internal auth rejected", "reason", "invalid_token", "ip", c.ClientIP())
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Forbidden", "code": "FORBIDDEN"})
			return
		}

		c.Next()
	}
}
