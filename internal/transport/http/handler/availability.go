package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/ErlanBelekov/barbershop-booking/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

type slotLister interface {
	Slots(ctx context.Context, barberID string, date time.Time) ([]domain.Slot, error)
}

type AvailabilityHandler struct {
	availability slotLister
	loc          *time.Location
	logger       *slog.Logger
}

func NewAvailabilityHandler(availability slotLister, loc *time.Location, logger *slog.Logger) *AvailabilityHandler {
	return &AvailabilityHandler{
		availability: availability,
		loc:          loc,
		logger:       logger.With("component", "availability_handler"),
	}
}

type availabilityQuery struct {
	BarberID string `form:"barberId" binding:"required"`
	Date     string `form:"date"     binding:"required"`
}

type slotResponse struct {
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
}

type availabilityResponse struct {
	Slots []slotResponse `json:"slots"`
}

// GET /availability?barberId=<uuid>&date=YYYY-MM-DD
func (h *AvailabilityHandler) List(c *gin.Context) {
	var q availabilityQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		abort(c, http.StatusBadRequest, err.Error(), codeBadRequest)
		return
	}
	if _, err := uuid.Parse(q.BarberID); err != nil {
		abort(c, http.StatusBadRequest, errInvalidBarberID, codeBadRequest)
		return
	}
	date, err := time.ParseInLocation(dateLayout, q.Date, h.loc)
	if err != nil {
		abort(c, http.StatusBadRequest, errInvalidDate, codeBadRequest)
		return
	}

	slots, err := h.availability.Slots(c.Request.Context(), q.BarberID, date)
	if err != nil {
		if errors.Is(err, domain.ErrBarberNotFound) {
			abort(c, http.StatusNotFound, errBarberNotFound, codeNotFound)
			return
		}
		h.logger.ErrorContext(c.Request.Context(), "list available slots", "barber_id", q.BarberID, "error", err)
		abort(c, http.StatusInternalServerError, errInternalServer, codeInternal)
		return
	}

	resp := availabilityResponse{Slots: make([]slotResponse, 0, len(slots))}
	for _, s := range slots {
		resp.Slots = append(resp.Slots, slotResponse{StartTime: s.StartTime, EndTime: s.EndTime})
	}
	c.JSON(http.StatusOK, resp)
}
