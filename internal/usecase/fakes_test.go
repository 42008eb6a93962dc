package usecase

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/ErlanBelekov/barbershop-booking/internal/domain"
	"github.com/ErlanBelekov/barbershop-booking/internal/repository"
)

// ---- tokens ----

type fakeTokenRepo struct {
	mu       sync.Mutex
	byHash   map[string]*domain.BookingToken
	nextID   int
	findErr  error
	attempts []string // ids passed to IncrementAttempts, in order
}

func newFakeTokenRepo() *fakeTokenRepo {
	return &fakeTokenRepo{byHash: make(map[string]*domain.BookingToken)}
}

func (r *fakeTokenRepo) Create(_ context.Context, in repository.CreateBookingTokenInput) (*domain.BookingToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	t := &domain.BookingToken{
		ID:            "tok-" + strconv.Itoa(r.nextID),
		TokenHash:     in.TokenHash,
		BarbershopID:  in.BarbershopID,
		BarberID:      in.BarberID,
		CustomerPhone: in.CustomerPhone,
		ExpiresAt:     in.ExpiresAt,
		SingleUse:     in.SingleUse,
	}
	r.byHash[in.TokenHash] = t
	cp := *t
	return &cp, nil
}

func (r *fakeTokenRepo) put(t *domain.BookingToken) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byHash[t.TokenHash] = t
}

func (r *fakeTokenRepo) get(hash string) *domain.BookingToken {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.byHash[hash]
	if !ok {
		return nil
	}
	cp := *t
	return &cp
}

func (r *fakeTokenRepo) FindByHash(_ context.Context, hash string) (*domain.BookingToken, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	return r.get(hash), nil
}

func (r *fakeTokenRepo) byID(id string) *domain.BookingToken {
	for _, t := range r.byHash {
		if t.ID == id {
			return t
		}
	}
	return nil
}

func (r *fakeTokenRepo) IncrementAttempts(_ context.Context, id string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.attempts = append(r.attempts, id)
	if t := r.byID(id); t != nil {
		t.ValidationAttempts++
		t.LastAttemptAt = &at
	}
	return nil
}

func (r *fakeTokenRepo) MarkUsed(_ context.Context, id string, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t := r.byID(id)
	if t == nil || t.UsedAt != nil {
		return false, nil
	}
	t.UsedAt = &at
	return true, nil
}

func (r *fakeTokenRepo) DeleteExpired(context.Context, time.Time, int) (int, error) {
	return 0, nil
}

// ---- appointments & customers ----

type fakeAppointmentRepo struct {
	mu        sync.Mutex
	appts     []*domain.Appointment
	nextID    int
	available *bool // overrides IsSlotAvailable when set
	created   int
}

func (r *fakeAppointmentRepo) FindAllOnDay(_ context.Context, barberID string, from, to time.Time) ([]*domain.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Appointment
	for _, a := range r.appts {
		if a.BarberID == barberID && a.Status != domain.AppointmentCanceled &&
			!a.StartTime.Before(from) && a.StartTime.Before(to) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *fakeAppointmentRepo) taken(barberID string, start time.Time) bool {
	for _, a := range r.appts {
		if a.BarberID == barberID && a.StartTime.Equal(start) && a.Status != domain.AppointmentCanceled {
			return true
		}
	}
	return false
}

func (r *fakeAppointmentRepo) IsSlotAvailable(_ context.Context, barberID string, start time.Time) (bool, error) {
	if r.available != nil {
		return *r.available, nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return !r.taken(barberID, start), nil
}

// Create behaves like the partial unique index on (barber_id, start_time).
func (r *fakeAppointmentRepo) Create(_ context.Context, in repository.CreateAppointmentInput) (*domain.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.taken(in.BarberID, in.StartTime) {
		return nil, domain.ErrSlotOccupied
	}
	r.nextID++
	r.created++
	a := &domain.Appointment{
		ID:           "appt-" + strconv.Itoa(r.nextID),
		BarberID:     in.BarberID,
		ServiceID:    in.ServiceID,
		CustomerID:   in.CustomerID,
		BarbershopID: in.BarbershopID,
		StartTime:    in.StartTime,
		EndTime:      in.EndTime,
		Status:       domain.AppointmentScheduled,
	}
	r.appts = append(r.appts, a)
	return a, nil
}

func (r *fakeAppointmentRepo) book(barberID string, start time.Time) {
	r.appts = append(r.appts, &domain.Appointment{
		ID:        "seed-" + start.Format("1504"),
		BarberID:  barberID,
		StartTime: start,
		EndTime:   start.Add(30 * time.Minute),
		Status:    domain.AppointmentScheduled,
	})
}

type fakeCustomerRepo struct {
	mu      sync.Mutex
	byKey   map[string]*domain.Customer
	created int
}

func newFakeCustomerRepo() *fakeCustomerRepo {
	return &fakeCustomerRepo{byKey: make(map[string]*domain.Customer)}
}

func (r *fakeCustomerRepo) FindByPhone(_ context.Context, phone, shopID string) (*domain.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.byKey[shopID+"|"+phone], nil
}

func (r *fakeCustomerRepo) Create(_ context.Context, phone, shopID string) (*domain.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := shopID + "|" + phone
	if c, ok := r.byKey[key]; ok {
		return c, nil
	}
	r.created++
	c := &domain.Customer{ID: "cust-" + strconv.Itoa(r.created), BarbershopID: shopID, Phone: phone}
	r.byKey[key] = c
	return c, nil
}

// ---- catalog ----

type fakeCatalog struct {
	shops    map[string]*domain.Barbershop
	barbers  map[string]*domain.Barber
	services map[string]*domain.Service
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		shops: map[string]*domain.Barbershop{
			"shop-1": {ID: "shop-1", Name: "Navalha", Email: "owner@navalha.test"},
			"shop-2": {ID: "shop-2", Name: "Tesoura"},
		},
		barbers: map[string]*domain.Barber{
			"barber-1": {ID: "barber-1", BarbershopID: "shop-1", Name: "Ana"},
			"barber-2": {ID: "barber-2", BarbershopID: "shop-1", Name: "Bruno"},
			"barber-9": {ID: "barber-9", BarbershopID: "shop-2", Name: "Caio"},
		},
		services: map[string]*domain.Service{
			"svc-cut":   {ID: "svc-cut", BarbershopID: "shop-1", Name: "Corte", DurationMin: 45},
			"svc-other": {ID: "svc-other", BarbershopID: "shop-2", Name: "Barba", DurationMin: 30},
		},
	}
}

func (c *fakeCatalog) GetBarbershop(_ context.Context, id string) (*domain.Barbershop, error) {
	if s, ok := c.shops[id]; ok {
		return s, nil
	}
	return nil, domain.ErrBarbershopNotFound
}

func (c *fakeCatalog) GetBarber(_ context.Context, id string) (*domain.Barber, error) {
	if b, ok := c.barbers[id]; ok {
		return b, nil
	}
	return nil, domain.ErrBarberNotFound
}

func (c *fakeCatalog) GetService(_ context.Context, id string) (*domain.Service, error) {
	if s, ok := c.services[id]; ok {
		return s, nil
	}
	return nil, domain.ErrServiceNotFound
}

// ---- side effects ----

type publishedEvent struct {
	subject string
	payload any
}

type fakePublisher struct {
	mu     sync.Mutex
	events []publishedEvent
	err    error
}

func (p *fakePublisher) Publish(_ context.Context, subject string, payload any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{subject: subject, payload: payload})
	return p.err
}

type fakeNotifier struct {
	mu    sync.Mutex
	shops []string
	err   error

	// release, when set, holds every send until it is closed.
	release chan struct{}
}

func (n *fakeNotifier) AppointmentBooked(_ context.Context, shop *domain.Barbershop, _ *domain.Appointment, _ string) error {
	if n.release != nil {
		<-n.release
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.shops = append(n.shops, shop.ID)
	return n.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func ptr[T any](v T) *T { return &v }
