package repository

import (
	"context"

	"github.com/ErlanBelekov/barbershop-booking/internal/domain"
)

// CatalogRepository is read-only; barbershops, barbers and services are
// maintained by the admin side. Each getter returns the matching
// domain.Err*NotFound when the row is absent.
type CatalogRepository interface {
	GetBarbershop(ctx context.Context, id string) (*domain.Barbershop, error)
	GetBarber(ctx context.Context, id string) (*domain.Barber, error)
	GetService(ctx context.Context, id string) (*domain.Service, error)
}
