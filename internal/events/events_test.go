package events

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogPublisher(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	var p Publisher = NewLogPublisher(logger)
	err := p.Publish(context.Background(), SubjectAppointmentBooked, AppointmentBooked{
		AppointmentID: "appt-1",
		StartTime:     time.Date(2026, 3, 11, 14, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "subject=appointment.booked")
	assert.Contains(t, out, "appt-1")
	assert.Contains(t, out, "component=events")
}

func TestNewNATSPublisher_Unreachable(t *testing.T) {
	_, err := NewNATSPublisher("nats://127.0.0.1:1", slog.New(slog.DiscardHandler))
	assert.Error(t, err)
}
