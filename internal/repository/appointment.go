package repository

import (
	"context"
	"time"

	"github.com/ErlanBelekov/barbershop-booking/internal/domain"
)

type CreateAppointmentInput struct {
	BarberID     string
	ServiceID    string
	CustomerID   string
	BarbershopID string
	StartTime    time.Time
	EndTime      time.Time
}

type AppointmentRepository interface {
	// FindAllOnDay returns non-canceled appointments of the barber starting in [from, to).
	FindAllOnDay(ctx context.Context, barberID string, from, to time.Time) ([]*domain.Appointment, error)
	IsSlotAvailable(ctx context.Context, barberID string, startTime time.Time) (bool, error)

	// Create returns domain.ErrSlotOccupied when a non-canceled appointment
	// already holds (barber_id, start_time). Storage enforces this, not the caller.
	Create(ctx context.Context, input CreateAppointmentInput) (*domain.Appointment, error)
}

type CustomerRepository interface {
	// FindByPhone returns (nil, nil) when the barbershop has no such customer.
	FindByPhone(ctx context.Context, phone, barbershopID string) (*domain.Customer, error)
	// Create is idempotent on (barbershop_id, phone): a concurrent creator
	// gets the existing row back.
	Create(ctx context.Context, phone, barbershopID string) (*domain.Customer, error)
}
