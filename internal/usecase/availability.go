package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/ErlanBelekov/barbershop-booking/internal/domain"
	"github.com/ErlanBelekov/barbershop-booking/internal/metrics"
	"github.com/ErlanBelekov/barbershop-booking/internal/repository"
)

// The grid is fixed for every barber and weekday. Barber schedules and breaks
// are not consulted here.
const (
	dayOpensAtMin  = 9 * 60
	dayClosesAtMin = 18 * 60
	slotLength     = 30 * time.Minute
)

type AvailabilityUsecase struct {
	appointments repository.AppointmentRepository
	catalog      repository.CatalogRepository
	loc          *time.Location
	now          func() time.Time
}

func NewAvailabilityUsecase(appointments repository.AppointmentRepository, catalog repository.CatalogRepository, loc *time.Location) *AvailabilityUsecase {
	return &AvailabilityUsecase{
		appointments: appointments,
		catalog:      catalog,
		loc:          loc,
		now:          time.Now,
	}
}

// Slots lists the free 30-minute slots of barberID on the calendar day of
// date (in the business time zone), in ascending order. Past days yield an
// empty list without touching storage.
func (u *AvailabilityUsecase) Slots(ctx context.Context, barberID string, date time.Time) ([]domain.Slot, error) {
	now := u.now().In(u.loc)
	day := midnight(date.In(u.loc))

	if day.Before(midnight(now)) {
		return []domain.Slot{}, nil
	}

	if _, err := u.catalog.GetBarber(ctx, barberID); err != nil {
		return nil, fmt.Errorf("get barber: %w", err)
	}

	booked, err := u.appointments.FindAllOnDay(ctx, barberID, day, day.AddDate(0, 0, 1))
	if err != nil {
		return nil, fmt.Errorf("find booked appointments: %w", err)
	}
	taken := make(map[int64]struct{}, len(booked))
	for _, a := range booked {
		taken[a.StartTime.UnixNano()] = struct{}{}
	}

	slots := make([]domain.Slot, 0, (dayClosesAtMin-dayOpensAtMin)/int(slotLength/time.Minute))
	for _, s := range dayGrid(day) {
		if !s.StartTime.After(now) {
			continue
		}
		if _, ok := taken[s.StartTime.UnixNano()]; ok {
			continue
		}
		slots = append(slots, s)
	}

	metrics.AvailableSlotsReturned.Observe(float64(len(slots)))
	return slots, nil
}

// dayGrid builds 09:00..17:30 on day's wall clock. time.Date normalises the
// minute offset, so DST days still get wall-clock slots.
func dayGrid(day time.Time) []domain.Slot {
	y, m, d := day.Date()
	step := int(slotLength / time.Minute)

	var grid []domain.Slot
	for minute := dayOpensAtMin; minute+step <= dayClosesAtMin; minute += step {
		start := time.Date(y, m, d, 0, minute, 0, 0, day.Location())
		grid = append(grid, domain.Slot{StartTime: start, EndTime: start.Add(slotLength)})
	}
	return grid
}

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
