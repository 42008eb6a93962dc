package domain

import (
	"errors"
	"time"
)

var (
	ErrSlotOccupied     = errors.New("slot is already booked")
	ErrStartTimeInPast  = errors.New("start time must be in the future")
	ErrBarberNotAllowed = errors.New("barber is not allowed for this booking session")
)

type AppointmentStatus string

const (
	AppointmentScheduled AppointmentStatus = "scheduled"
	AppointmentCanceled  AppointmentStatus = "canceled"
	AppointmentCompleted AppointmentStatus = "completed"
)

type Appointment struct {
	ID           string
	BarberID     string
	ServiceID    string
	CustomerID   string
	BarbershopID string
	StartTime    time.Time
	EndTime      time.Time
	Status       AppointmentStatus
	CreatedAt    time.Time
}

// Slot is a bookable window offered to the customer. Never persisted.
type Slot struct {
	StartTime time.Time
	EndTime   time.Time
}

type Customer struct {
	ID           string
	BarbershopID string
	Phone        string
	CreatedAt    time.Time
}
