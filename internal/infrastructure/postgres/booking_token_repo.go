package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ErlanBelekov/barbershop-booking/internal/domain"
	"github.com/ErlanBelekov/barbershop-booking/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const bookingTokenColumns = `
	id, token_hash, barbershop_id, barber_id, customer_phone, expires_at,
	used_at, single_use, validation_attempts, last_attempt_at, created_at`

type BookingTokenRepository struct {
	pool *pgxpool.Pool
}

func NewBookingTokenRepository(pool *pgxpool.Pool) *BookingTokenRepository {
	return &BookingTokenRepository{pool: pool}
}

func (r *BookingTokenRepository) Create(ctx context.Context, input repository.CreateBookingTokenInput) (*domain.BookingToken, error) {
	query := `
		INSERT INTO booking_tokens (
			token_hash, barbershop_id, barber_id, customer_phone, expires_at, single_use
		) VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING` + bookingTokenColumns

	row := r.pool.QueryRow(ctx, query,
		input.TokenHash,
		input.BarbershopID,
		input.BarberID,
		input.CustomerPhone,
		input.ExpiresAt,
		input.SingleUse,
	)

	created, err := scanBookingToken(row)
	if err != nil {
		return nil, fmt.Errorf("insert booking token: %w", err)
	}
	return created, nil
}

func (r *BookingTokenRepository) FindByHash(ctx context.Context, tokenHash string) (*domain.BookingToken, error) {
	query := `SELECT` + bookingTokenColumns + ` FROM booking_tokens WHERE token_hash = $1`

	t, err := scanBookingToken(r.pool.QueryRow(ctx, query, tokenHash))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find booking token: %w", err)
	}
	return t, nil
}

func (r *BookingTokenRepository) IncrementAttempts(ctx context.Context, id string, at time.Time) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE booking_tokens
		SET    validation_attempts = validation_attempts + 1,
		       last_attempt_at     = $2
		WHERE id = $1`, id, at)
	if err != nil {
		return fmt.Errorf("increment attempts: %w", err)
	}
	return nil
}

func (r *BookingTokenRepository) MarkUsed(ctx context.Context, id string, at time.Time) (bool, error) {
	// used_at IS NULL makes concurrent validators race on the row lock; only one sees a row affected.
	tag, err := r.pool.Exec(ctx,
		`UPDATE booking_tokens SET used_at = $2 WHERE id = $1 AND used_at IS NULL`,
		id, at)
	if err != nil {
		return false, fmt.Errorf("mark token used: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *BookingTokenRepository) DeleteExpired(ctx context.Context, cutoff time.Time, limit int) (int, error) {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM booking_tokens
		WHERE id IN (
			SELECT id FROM booking_tokens
			WHERE  expires_at < $1
			ORDER BY expires_at ASC
			LIMIT $2
			FOR UPDATE SKIP LOCKED
		)`, cutoff, limit)
	if err != nil {
		return 0, fmt.Errorf("delete expired tokens: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

// scanBookingToken leaves pgx.ErrNoRows unwrapped so callers can tell "absent" from failure.
func scanBookingToken(row rowScanner) (*domain.BookingToken, error) {
	var t domain.BookingToken
	err := row.Scan(
		&t.ID, &t.TokenHash, &t.BarbershopID, &t.BarberID, &t.CustomerPhone, &t.ExpiresAt,
		&t.UsedAt, &t.SingleUse, &t.ValidationAttempts, &t.LastAttemptAt, &t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan booking token: %w", err)
	}
	return &t, nil
}
