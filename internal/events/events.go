// Package events publishes booking facts for out-of-process consumers, most
// notably the WhatsApp delivery service.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
)

const (
	SubjectBookingLinkIssued = "booking_link.issued"
	SubjectAppointmentBooked = "appointment.booked"
)

type BookingLinkIssued struct {
	BarbershopID  string    `json:"barbershop_id"`
	BarberID      *string   `json:"barber_id,omitempty"`
	CustomerPhone string    `json:"customer_phone"`
	BookingURL    string    `json:"booking_url"`
	ExpiresAt     time.Time `json:"expires_at"`
}

type AppointmentBooked struct {
	AppointmentID string    `json:"appointment_id"`
	BarbershopID  string    `json:"barbershop_id"`
	BarberID      string    `json:"barber_id"`
	ServiceID     string    `json:"service_id"`
	CustomerPhone string    `json:"customer_phone"`
	StartTime     time.Time `json:"start_time"`
	EndTime       time.Time `json:"end_time"`
}

type Publisher interface {
	Publish(ctx context.Context, subject string, payload any) error
}

type NATSPublisher struct {
	conn *nats.Conn
}

func NewNATSPublisher(url string, logger *slog.Logger) (*NATSPublisher, error) {
	conn, err := nats.Connect(url,
		nats.Name("barbershop-booking"),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("nats disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			logger.Info("nats reconnected", "url", c.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}
	return &NATSPublisher{conn: conn}, nil
}

func (p *NATSPublisher) Publish(_ context.Context, subject string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", subject, err)
	}
	if err := p.conn.Publish(subject, data); err != nil {
		return fmt.Errorf("publish %s: %w", subject, err)
	}
	return nil
}

// Ping flushes the connection so the health checker sees a round trip.
func (p *NATSPublisher) Ping(ctx context.Context) error {
	return p.conn.FlushWithContext(ctx)
}

func (p *NATSPublisher) Close() {
	if err := p.conn.Drain(); err != nil {
		p.conn.Close()
	}
}

// LogPublisher only logs events. Used when NATS_URL is not configured.
type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger.With("component", "events")}
}

func (p *LogPublisher) Publish(ctx context.Context, subject string, payload any) error {
	p.logger.DebugContext(ctx, "event (nats disabled)", "subject", subject, "payload", payload)
	return nil
}
