package domain

import "errors"

var (
	ErrBarbershopNotFound = errors.New("barbershop not found")
	ErrBarberNotFound     = errors.New("barber not found")
	ErrServiceNotFound    = errors.New("service not found")
)

// Catalog entities are managed elsewhere; the booking flow only reads them.

type Barbershop struct {
	ID    string
	Name  string
	Email string
}

type Barber struct {
	ID           string
	BarbershopID string
	Name         string
}

type Service struct {
	ID           string
	BarbershopID string
	Name         string
	DurationMin  int
}
