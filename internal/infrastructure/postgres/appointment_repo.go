package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ErlanBelekov/barbershop-booking/internal/domain"
	"github.com/ErlanBelekov/barbershop-booking/internal/repository"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const appointmentColumns = `
	id, barber_id, service_id, customer_id, barbershop_id,
	start_time, end_time, status, created_at`

type AppointmentRepository struct {
	pool *pgxpool.Pool
}

func NewAppointmentRepository(pool *pgxpool.Pool) *AppointmentRepository {
	return &AppointmentRepository{pool: pool}
}

func (r *AppointmentRepository) FindAllOnDay(ctx context.Context, barberID string, from, to time.Time) ([]*domain.Appointment, error) {
	query := `SELECT` + appointmentColumns + `
		FROM appointments
		WHERE barber_id  = $1
		  AND start_time >= $2
		  AND start_time <  $3
		  AND status     <> 'canceled'
		ORDER BY start_time ASC`

	rows, err := r.pool.Query(ctx, query, barberID, from, to)
	if err != nil {
		return nil, fmt.Errorf("find appointments on day: %w", err)
	}
	defer rows.Close()

	var appts []*domain.Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		appts = append(appts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate appointments: %w", err)
	}
	return appts, nil
}

func (r *AppointmentRepository) IsSlotAvailable(ctx context.Context, barberID string, startTime time.Time) (bool, error) {
	var taken bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM appointments
			WHERE barber_id = $1 AND start_time = $2 AND status <> 'canceled'
		)`, barberID, startTime).Scan(&taken)
	if err != nil {
		return false, fmt.Errorf("check slot: %w", err)
	}
	return !taken, nil
}

func (r *AppointmentRepository) Create(ctx context.Context, input repository.CreateAppointmentInput) (*domain.Appointment, error) {
	query := `
		INSERT INTO appointments (
			barber_id, service_id, customer_id, barbershop_id, start_time, end_time, status
		) VALUES ($1, $2, $3, $4, $5, $6, 'scheduled')
		RETURNING` + appointmentColumns

	row := r.pool.QueryRow(ctx, query,
		input.BarberID,
		input.ServiceID,
		input.CustomerID,
		input.BarbershopID,
		input.StartTime,
		input.EndTime,
	)

	created, err := scanAppointment(row)
	if err != nil {
		// appointments_barber_slot_uniq: someone else committed this slot first
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, domain.ErrSlotOccupied
		}
		return nil, err
	}
	return created, nil
}

func scanAppointment(row rowScanner) (*domain.Appointment, error) {
	var a domain.Appointment
	err := row.Scan(
		&a.ID, &a.BarberID, &a.ServiceID, &a.CustomerID, &a.BarbershopID,
		&a.StartTime, &a.EndTime, &a.Status, &a.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("scan appointment: %w", err)
	}
	return &a, nil
}
