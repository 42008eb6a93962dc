package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/ErlanBelekov/barbershop-booking/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CustomerRepository struct {
	pool *pgxpool.Pool
}

func NewCustomerRepository(pool *pgxpool.Pool) *CustomerRepository {
	return &CustomerRepository{pool: pool}
}

func (r *CustomerRepository) FindByPhone(ctx context.Context, phone, barbershopID string) (*domain.Customer, error) {
	query := `
		SELECT id, barbershop_id, phone, created_at
		FROM customers
		WHERE barbershop_id = $1 AND phone = $2`

	c, err := scanCustomer(r.pool.QueryRow(ctx, query, barbershopID, phone))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find customer: %w", err)
	}
	return c, nil
}

func (r *CustomerRepository) Create(ctx context.Context, phone, barbershopID string) (*domain.Customer, error) {
	// DO UPDATE (not DO NOTHING) so RETURNING yields the row even when it already exists
	query := `
		INSERT INTO customers (barbershop_id, phone)
		VALUES ($1, $2)
		ON CONFLICT (barbershop_id, phone) DO UPDATE SET phone = EXCLUDED.phone
		RETURNING id, barbershop_id, phone, created_at`

	c, err := scanCustomer(r.pool.QueryRow(ctx, query, barbershopID, phone))
	if err != nil {
		return nil, fmt.Errorf("create customer: %w", err)
	}
	return c, nil
}

func scanCustomer(row pgx.Row) (*domain.Customer, error) {
	var c domain.Customer
	if err := row.Scan(&c.ID, &c.BarbershopID, &c.Phone, &c.CreatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}
