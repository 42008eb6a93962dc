package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/ErlanBelekov/barbershop-booking/internal/domain"
	"github.com/ErlanBelekov/barbershop-booking/internal/transport/http/middleware"
	"github.com/ErlanBelekov/barbershop-booking/internal/usecase"
	"github.com/gin-gonic/gin"
)

type appointmentScheduler interface {
	Schedule(ctx context.Context, input usecase.ScheduleInput) (*domain.Appointment, error)
}

type AppointmentHandler struct {
	appointments appointmentScheduler
	logger       *slog.Logger
}

func NewAppointmentHandler(appointments appointmentScheduler, logger *slog.Logger) *AppointmentHandler {
	return &AppointmentHandler{
		appointments: appointments,
		logger:       logger.With("component", "appointment_handler"),
	}
}

type createAppointmentRequest struct {
	BarberID  string    `json:"barberId"  binding:"required,uuid"`
	ServiceID string    `json:"serviceId" binding:"required,uuid"`
	StartTime time.Time `json:"startTime" binding:"required"`
}

type appointmentResponse struct {
	ID           string                   `json:"id"`
	BarbershopID string                   `json:"barbershopId"`
	BarberID     string                   `json:"barberId"`
	ServiceID    string                   `json:"serviceId"`
	CustomerID   string                   `json:"customerId"`
	StartTime    time.Time                `json:"startTime"`
	EndTime      time.Time                `json:"endTime"`
	Status       domain.AppointmentStatus `json:"status"`
}

type createAppointmentResponse struct {
	Appointment appointmentResponse `json:"appointment"`
}

// POST /appointments
// Requires the booking session cookie; customer and barbershop come from the session.
func (h *AppointmentHandler) Create(c *gin.Context) {
	sess, ok := middleware.SessionFromContext(c)
	if !ok {
		abort(c, http.StatusUnauthorized, errUnauthorized, codeUnauthorized)
		return
	}

	var req createAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusBadRequest, err.Error(), codeBadRequest)
		return
	}

	appt, err := h.appointments.Schedule(c.Request.Context(), usecase.ScheduleInput{
		Session:   sess,
		BarberID:  req.BarberID,
		ServiceID: req.ServiceID,
		StartTime: req.StartTime,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrBarberNotAllowed):
			abort(c, http.StatusForbidden, errBarberNotAllowed, codeBarberForbidden)
		case errors.Is(err, domain.ErrBarberNotFound):
			abort(c, http.StatusNotFound, errBarberNotFound, codeNotFound)
		case errors.Is(err, domain.ErrServiceNotFound):
			abort(c, http.StatusNotFound, errServiceNotFound, codeNotFound)
		case errors.Is(err, domain.ErrStartTimeInPast):
			abort(c, http.StatusBadRequest, errStartTimeInPast, codeStartTimeInPast)
		case errors.Is(err, domain.ErrSlotOccupied):
			abort(c, http.StatusConflict, errSlotOccupied, codeSlotOccupied)
		default:
			h.logger.ErrorContext(c.Request.Context(), "schedule appointment", "barber_id", req.BarberID, "error", err)
			abort(c, http.StatusInternalServerError, errInternalServer, codeInternal)
		}
		return
	}

	c.JSON(http.StatusCreated, createAppointmentResponse{Appointment: appointmentResponse{
		ID:           appt.ID,
		BarbershopID: appt.BarbershopID,
		BarberID:     appt.BarberID,
		ServiceID:    appt.ServiceID,
		CustomerID:   appt.CustomerID,
		StartTime:    appt.StartTime,
		EndTime:      appt.EndTime,
		Status:       appt.Status,
	}})
}
