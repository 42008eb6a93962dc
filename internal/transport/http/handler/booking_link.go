package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/ErlanBelekov/barbershop-booking/internal/domain"
	"github.com/ErlanBelekov/barbershop-booking/internal/session"
	"github.com/ErlanBelekov/barbershop-booking/internal/usecase"
	"github.com/gin-gonic/gin"
)

// Shorter path values cannot be tokens we minted; they are rejected before
// any storage lookup.
const minTokenLength = 32

// bookingLinker is the subset of BookingLinkUsecase the handler needs.
// Defined here (point of use) so tests can inject a fake.
type bookingLinker interface {
	Issue(ctx context.Context, input usecase.IssueInput) (*usecase.IssueResult, error)
	Validate(ctx context.Context, plaintext string) (*domain.BookingSession, error)
}

type sessionSigner interface {
	Sign(s *domain.BookingSession) (string, error)
	TTL() time.Duration
}

type BookingLinkHandler struct {
	links        bookingLinker
	sessions     sessionSigner
	secureCookie bool
	logger       *slog.Logger
}

func NewBookingLinkHandler(links bookingLinker, sessions sessionSigner, secureCookie bool, logger *slog.Logger) *BookingLinkHandler {
	return &BookingLinkHandler{
		links:        links,
		sessions:     sessions,
		secureCookie: secureCookie,
		logger:       logger.With("component", "booking_link_handler"),
	}
}

type issueLinkRequest struct {
	BarbershopID  string  `json:"barbershopId"  binding:"required,uuid"`
	BarberID      *string `json:"barberId"      binding:"omitempty,uuid"`
	CustomerPhone string  `json:"customerPhone" binding:"required,min=8,max=20"`
	ExpiryMinutes int     `json:"expiryMinutes" binding:"omitempty,min=1,max=1440"`
}

type issueLinkResponse struct {
	BookingURL string    `json:"bookingUrl"`
	ExpiresAt  time.Time `json:"expiresAt"`
}

// POST /auth/booking-link
// Called by trusted integrations (WhatsApp bot, shop system), never by customers.
func (h *BookingLinkHandler) Issue(c *gin.Context) {
	var req issueLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusBadRequest, err.Error(), codeBadRequest)
		return
	}

	res, err := h.links.Issue(c.Request.Context(), usecase.IssueInput{
		BarbershopID:  req.BarbershopID,
		BarberID:      req.BarberID,
		CustomerPhone: req.CustomerPhone,
		ExpiryMinutes: req.ExpiryMinutes,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrBarbershopNotFound):
			abort(c, http.StatusNotFound, errBarbershopNotFound, codeNotFound)
		case errors.Is(err, domain.ErrBarberNotFound):
			abort(c, http.StatusNotFound, errBarberNotFound, codeNotFound)
		default:
			h.logger.ErrorContext(c.Request.Context(), "issue booking link", "error", err)
			abort(c, http.StatusInternalServerError, errInternalServer, codeInternal)
		}
		return
	}

	c.JSON(http.StatusCreated, issueLinkResponse{
		BookingURL: res.BookingURL,
		ExpiresAt:  res.ExpiresAt,
	})
}

type validateLinkResponse struct {
	Message      string  `json:"message"`
	BarbershopID string  `json:"barbershopId"`
	BarberID     *string `json:"barberId"`
}

// GET /auth/booking/:token
// On success the booking session travels in an HttpOnly cookie, never in the body.
func (h *BookingLinkHandler) Validate(c *gin.Context) {
	raw := c.Param("token")
	if len(raw) < minTokenLength {
		abort(c, http.StatusBadRequest, errInvalidToken, codeInvalidToken)
		return
	}

	sess, err := h.links.Validate(c.Request.Context(), raw)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrTokenNotFound):
			abort(c, http.StatusNotFound, errInvalidToken, codeInvalidToken)
		case errors.Is(err, domain.ErrTokenExpired):
			abort(c, http.StatusGone, errTokenExpired, codeTokenExpired)
		case errors.Is(err, domain.ErrTokenAlreadyUsed):
			abort(c, http.StatusGone, errTokenUsed, codeTokenUsed)
		case errors.Is(err, domain.ErrTokenRateLimited):
			abort(c, http.StatusTooManyRequests, errRateLimited, codeRateLimited)
		default:
			h.logger.ErrorContext(c.Request.Context(), "validate booking link", "error", err)
			abort(c, http.StatusInternalServerError, errInternalServer, codeInternal)
		}
		return
	}

	signed, err := h.sessions.Sign(sess)
	if err != nil {
		h.logger.ErrorContext(c.Request.Context(), "sign booking session", "token_id", sess.TokenID, "error", err)
		abort(c, http.StatusInternalServerError, errInternalServer, codeInternal)
		return
	}

	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(session.CookieName, signed, int(h.sessions.TTL().Seconds()), "/", "", h.secureCookie, true)

	c.JSON(http.StatusOK, validateLinkResponse{
		Message:      "Booking link validated",
		BarbershopID: sess.BarbershopID,
		BarberID:     sess.BarberID,
	})
}
