package httptransport

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/ErlanBelekov/barbershop-booking/internal/domain"
	"github.com/ErlanBelekov/barbershop-booking/internal/transport/http/handler"
	"github.com/ErlanBelekov/barbershop-booking/internal/transport/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/go-chi/cors"

	sloggin "github.com/samber/slog-gin"
)

type Limiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

type SessionParser interface {
	Parse(raw string) (*domain.BookingSession, error)
}

type Handlers struct {
	BookingLink  *handler.BookingLinkHandler
	Availability *handler.AvailabilityHandler
	Appointment  *handler.AppointmentHandler
}

type Options struct {
	InternalAPIToken string
	Sessions         SessionParser

	// TrustedProxies lists the proxy IPs/CIDRs allowed to set X-Forwarded-For.
	// Empty keys the throttle on the TCP peer address.
	TrustedProxies []string

	// ValidateLimiter is optional; nil disables the per-IP throttle on link validation.
	ValidateLimiter   Limiter
	ValidateRateLimit int
}

func NewRouter(logger *slog.Logger, h Handlers, opts Options) (*gin.Engine, error) {
	r := gin.New()
	if err := r.SetTrustedProxies(opts.TrustedProxies); err != nil {
		return nil, fmt.Errorf("trusted proxies: %w", err)
	}
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Security())
	r.Use(sloggin.NewWithConfig(logger, sloggin.Config{
		DefaultLevel:     slog.LevelInfo,
		ClientErrorLevel: slog.LevelWarn,
		ServerErrorLevel: slog.LevelError,
		// the path of a validation request is the plaintext token
		Filters: []sloggin.Filter{sloggin.IgnorePathPrefix("/auth/booking/")},
	}))
	r.Use(middleware.Metrics())

	// Integrations (WhatsApp bot, shop back office)
	r.POST("/auth/booking-link", middleware.InternalToken(opts.InternalAPIToken, logger), h.BookingLink.Issue)

	// Customer booking page
	validate := []gin.HandlerFunc{}
	if opts.ValidateLimiter != nil {
		validate = append(validate, middleware.RateLimit(opts.ValidateLimiter, opts.ValidateRateLimit, time.Minute, logger))
	}
	validate = append(validate, h.BookingLink.Validate)
	r.GET("/auth/booking/:token", validate...)

	r.GET("/availability", h.Availability.List)
	r.POST("/appointments", middleware.Session(opts.Sessions), h.Appointment.Create)

	return r, nil
}

// WithCORS lets the browser booking page call the API with its session cookie.
func WithCORS(next http.Handler, allowedOrigins []string) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           300,
	})(next)
}
