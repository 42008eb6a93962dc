package handler

import "github.com/gin-gonic/gin"

const (
	errInternalServer     = "Internal server error"
	errUnauthorized       = "Unauthorized"
	errInvalidToken       = "Booking link is invalid"
	errTokenExpired       = "Booking link has expired"
	errTokenUsed          = "Booking link has already been used"
	errRateLimited        = "Too many attempts, try again in a minute"
	errBarbershopNotFound = "Barbershop not found"
	errBarberNotFound     = "Barber not found"
	errServiceNotFound    = "Service not found"
	errSlotOccupied       = "This time slot is no longer available"
	errStartTimeInPast    = "Start time must be in the future"
	errBarberNotAllowed   = "This booking link does not allow that barber"
	errInvalidDate        = "date must be formatted as YYYY-MM-DD"
	errInvalidBarberID    = "barberId must be a UUID"
)

// Machine-readable codes returned next to the message.
const (
	codeUnauthorized    = "UNAUTHORIZED"
	codeInvalidToken    = "INVALID_TOKEN"
	codeTokenExpired    = "TOKEN_EXPIRED"
	codeTokenUsed       = "TOKEN_USED"
	codeRateLimited     = "RATE_LIMITED"
	codeNotFound        = "NOT_FOUND"
	codeSlotOccupied    = "SLOT_OCCUPIED"
	codeStartTimeInPast = "START_TIME_IN_PAST"
	codeBarberForbidden = "BARBER_NOT_ALLOWED"
	codeBadRequest      = "BAD_REQUEST"
	codeInternal        = "INTERNAL"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func abort(c *gin.Context, status int, msg, code string) {
	c.AbortWithStatusJSON(status, errorResponse{Error: msg, Code: code})
}
