package metrics

import (
	"net/http"

	"github.com/ErlanBelekov/barbershop-booking/internal/health"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Booking links

	BookingLinksIssuedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "barbershop",
		Name:      "booking_links_issued_total",
		Help:      "Total booking links issued.",
	})

	TokenValidationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "barbershop",
		Name:      "token_validations_total",
		Help:      "Booking token validations, by outcome.",
	}, []string{"outcome"})

	// Appointments

	AppointmentsBookedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "barbershop",
		Name:      "appointments_booked_total",
		Help:      "Total appointments committed.",
	})

	SlotConflictsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "barbershop",
		Name:      "slot_conflicts_total",
		Help:      "Bookings rejected because the slot was taken, by where the conflict was detected.",
	}, []string{"stage"})

	AvailableSlotsReturned = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "barbershop",
		Name:      "available_slots_returned",
		Help:      "Number of free slots returned per availability query.",
		Buckets:   []float64{0, 1, 3, 6, 9, 12, 15, 18},
	})

	// Reaper

	ReaperDeletedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "barbershop",
		Name:      "reaper_tokens_deleted_total",
		Help:      "Expired booking tokens removed by the reaper.",
	})

	ReaperCycleDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "barbershop",
		Name:      "reaper_cycle_duration_seconds",
		Help:      "Time taken for one reaper cycle.",
		Buckets:   prometheus.DefBuckets,
	})

	// HTTP

	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "barbershop",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "barbershop",
		Name:      "http_requests_total",
		Help:      "Total HTTP requests.",
	}, []string{"method", "path", "status"})
)

func Register() {
	prometheus.MustRegister(
		BookingLinksIssuedTotal,
		TokenValidationsTotal,
		AppointmentsBookedTotal,
		SlotConflictsTotal,
		AvailableSlotsReturned,
		ReaperDeletedTotal,
		ReaperCycleDuration,
		HTTPRequestDuration,
		HTTPRequestsTotal,
	)
}

// NewServer serves /metrics plus liveness and readiness probes on a separate port.
func NewServer(addr string, checker *health.Checker) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", checker.LivenessHandler)
	mux.HandleFunc("/readyz", checker.ReadinessHandler)
	return &http.Server{Addr: addr, Handler: mux}
}
