package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ErlanBelekov/barbershop-booking/internal/domain"
	"github.com/ErlanBelekov/barbershop-booking/internal/events"
	"github.com/ErlanBelekov/barbershop-booking/internal/metrics"
	"github.com/ErlanBelekov/barbershop-booking/internal/repository"
)

const notifyTimeout = 5 * time.Second

// appointmentNotifier is satisfied by *email.ShopNotifier.
type appointmentNotifier interface {
	AppointmentBooked(ctx context.Context, shop *domain.Barbershop, appt *domain.Appointment, customerPhone string) error
}

type AppointmentUsecase struct {
	appointments repository.AppointmentRepository
	customers    repository.CustomerRepository
	catalog      repository.CatalogRepository
	publisher    events.Publisher
	notifier     appointmentNotifier
	logger       *slog.Logger
	now          func() time.Time

	announcing sync.WaitGroup
}

func NewAppointmentUsecase(
	appointments repository.AppointmentRepository,
	customers repository.CustomerRepository,
	catalog repository.CatalogRepository,
	publisher events.Publisher,
	notifier appointmentNotifier,
	logger *slog.Logger,
) *AppointmentUsecase {
	return &AppointmentUsecase{
		appointments: appointments,
		customers:    customers,
		catalog:      catalog,
		publisher:    publisher,
		notifier:     notifier,
		logger:       logger.With("component", "appointment_usecase"),
		now:          time.Now,
	}
}

type BookInput struct {
	BarberID      string
	ServiceID     string
	BarbershopID  string
	CustomerPhone string
	StartTime     time.Time
	DurationMin   int
}

// Book commits an appointment for an already-resolved barber and service.
// IsSlotAvailable is only an early exit; the unique index behind
// AppointmentRepository.Create decides races.
func (u *AppointmentUsecase) Book(ctx context.Context, input BookInput) (*domain.Appointment, error) {
	available, err := u.appointments.IsSlotAvailable(ctx, input.BarberID, input.StartTime)
	if err != nil {
		return nil, fmt.Errorf("check slot: %w", err)
	}
	if !available {
		metrics.SlotConflictsTotal.WithLabelValues("precheck").Inc()
		return nil, domain.ErrSlotOccupied
	}

	customer, err := u.findOrCreateCustomer(ctx, input.CustomerPhone, input.BarbershopID)
	if err != nil {
		return nil, err
	}

	appt, err := u.appointments.Create(ctx, repository.CreateAppointmentInput{
		BarberID:     input.BarberID,
		ServiceID:    input.ServiceID,
		CustomerID:   customer.ID,
		BarbershopID: input.BarbershopID,
		StartTime:    input.StartTime,
		EndTime:      input.StartTime.Add(time.Duration(input.DurationMin) * time.Minute),
	})
	if err != nil {
		if errors.Is(err, domain.ErrSlotOccupied) {
			metrics.SlotConflictsTotal.WithLabelValues("insert").Inc()
			return nil, domain.ErrSlotOccupied
		}
		return nil, fmt.Errorf("create appointment: %w", err)
	}

	metrics.AppointmentsBookedTotal.Inc()
	return appt, nil
}

func (u *AppointmentUsecase) findOrCreateCustomer(ctx context.Context, phone, barbershopID string) (*domain.Customer, error) {
	c, err := u.customers.FindByPhone(ctx, phone, barbershopID)
	if err != nil {
		return nil, fmt.Errorf("find customer: %w", err)
	}
	if c != nil {
		return c, nil
	}
	c, err = u.customers.Create(ctx, phone, barbershopID)
	if err != nil {
		return nil, fmt.Errorf("create customer: %w", err)
	}
	return c, nil
}

type ScheduleInput struct {
	Session   *domain.BookingSession
	BarberID  string
	ServiceID string
	StartTime time.Time
}

// Schedule is the session-facing entry point: it resolves barber and service
// inside the session's barbershop, then books.
func (u *AppointmentUsecase) Schedule(ctx context.Context, input ScheduleInput) (*domain.Appointment, error) {
	s := input.Session
	if s.BarberID != nil && *s.BarberID != input.BarberID {
		return nil, domain.ErrBarberNotAllowed
	}

	barber, err := u.catalog.GetBarber(ctx, input.BarberID)
	if err != nil {
		return nil, fmt.Errorf("get barber: %w", err)
	}
	if barber.BarbershopID != s.BarbershopID {
		return nil, domain.ErrBarberNotFound
	}

	service, err := u.catalog.GetService(ctx, input.ServiceID)
	if err != nil {
		return nil, fmt.Errorf("get service: %w", err)
	}
	if service.BarbershopID != s.BarbershopID {
		return nil, domain.ErrServiceNotFound
	}

	if !input.StartTime.After(u.now()) {
		return nil, domain.ErrStartTimeInPast
	}

	appt, err := u.Book(ctx, BookInput{
		BarberID:      barber.ID,
		ServiceID:     service.ID,
		BarbershopID:  s.BarbershopID,
		CustomerPhone: s.CustomerPhone,
		StartTime:     input.StartTime,
		DurationMin:   service.DurationMin,
	})
	if err != nil {
		return nil, err
	}

	u.announcing.Go(func() { u.announce(ctx, appt, s.CustomerPhone) })
	return appt, nil
}

// Wait blocks until every in-flight booking announcement has finished.
func (u *AppointmentUsecase) Wait() {
	u.announcing.Wait()
}

// announce fans the booking out to NATS and the shop's inbox off the request
// path. Failures are logged only: the appointment is already committed.
func (u *AppointmentUsecase) announce(ctx context.Context, appt *domain.Appointment, customerPhone string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
	defer cancel()

	err := u.publisher.Publish(ctx, events.SubjectAppointmentBooked, events.AppointmentBooked{
		AppointmentID: appt.ID,
		BarbershopID:  appt.BarbershopID,
		BarberID:      appt.BarberID,
		ServiceID:     appt.ServiceID,
		CustomerPhone: customerPhone,
		StartTime:     appt.StartTime,
		EndTime:       appt.EndTime,
	})
	if err != nil {
		u.logger.WarnContext(ctx, "publish appointment booked", "appointment_id", appt.ID, "error", err)
	}

	shop, err := u.catalog.GetBarbershop(ctx, appt.BarbershopID)
	if err != nil {
		u.logger.WarnContext(ctx, "load barbershop for notification", "appointment_id", appt.ID, "error", err)
		return
	}
	if err := u.notifier.AppointmentBooked(ctx, shop, appt, customerPhone); err != nil {
		u.logger.WarnContext(ctx, "notify barbershop", "appointment_id", appt.ID, "error", err)
	}
}
