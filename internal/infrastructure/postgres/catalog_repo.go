package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/ErlanBelekov/barbershop-booking/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CatalogRepository struct {
	pool *pgxpool.Pool
}

func NewCatalogRepository(pool *pgxpool.Pool) *CatalogRepository {
	return &CatalogRepository{pool: pool}
}

func (r *CatalogRepository) GetBarbershop(ctx context.Context, id string) (*domain.Barbershop, error) {
	var b domain.Barbershop
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, email FROM barbershops WHERE id = $1`, id,
	).Scan(&b.ID, &b.Name, &b.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBarbershopNotFound
		}
		return nil, fmt.Errorf("get barbershop: %w", err)
	}
	return &b, nil
}

func (r *CatalogRepository) GetBarber(ctx context.Context, id string) (*domain.Barber, error) {
	var b domain.Barber
	err := r.pool.QueryRow(ctx,
		`SELECT id, barbershop_id, name FROM barbers WHERE id = $1`, id,
	).Scan(&b.ID, &b.BarbershopID, &b.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBarberNotFound
		}
		return nil, fmt.Errorf("get barber: %w", err)
	}
	return &b, nil
}

func (r *CatalogRepository) GetService(ctx context.Context, id string) (*domain.Service, error) {
	var s domain.Service
	err := r.pool.QueryRow(ctx,
		`SELECT id, barbershop_id, name, duration_min FROM services WHERE id = $1`, id,
	).Scan(&s.ID, &s.BarbershopID, &s.Name, &s.DurationMin)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrServiceNotFound
		}
		return nil, fmt.Errorf("get service: %w", err)
	}
	return &s, nil
}
