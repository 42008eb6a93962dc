package email_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ErlanBelekov/barbershop-booking/internal/domain"
	"github.com/ErlanBelekov/barbershop-booking/internal/email"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSender struct {
	to, subject, body string
	calls             int
	err               error
}

func (s *recordingSender) Send(_ context.Context, to, subject, body string) error {
	s.calls++
	s.to, s.subject, s.body = to, subject, body
	return s.err
}

var saoPaulo = time.FixedZone("BRT", -3*60*60)

func testAppointment() *domain.Appointment {
	start := time.Date(2026, 3, 10, 17, 0, 0, 0, time.UTC) // 14:00 BRT
	return &domain.Appointment{ID: "appt-1", StartTime: start, EndTime: start.Add(45 * time.Minute)}
}

func TestShopNotifier_SendsInShopTimezone(t *testing.T) {
	sender := &recordingSender{}
	n := email.NewShopNotifier(sender, saoPaulo)
	shop := &domain.Barbershop{ID: "shop-1", Name: "Navalha", Email: "owner@navalha.test"}

	err := n.AppointmentBooked(context.Background(), shop, testAppointment(), "+5511999999999")
	require.NoError(t, err)

	assert.Equal(t, "owner@navalha.test", sender.to)
	assert.Equal(t, "New appointment on 10/03 14:00", sender.subject)
	assert.Contains(t, sender.body, "+5511999999999")
	assert.Contains(t, sender.body, "14:45")
}

func TestShopNotifier_EscapesUserText(t *testing.T) {
	sender := &recordingSender{}
	n := email.NewShopNotifier(sender, saoPaulo)
	shop := &domain.Barbershop{ID: "shop-1", Name: `Tom & Jerry's <b>Barbearia</b>`, Email: "owner@navalha.test"}

	err := n.AppointmentBooked(context.Background(), shop, testAppointment(), `<script>alert(1)</script>`)
	require.NoError(t, err)

	assert.NotContains(t, sender.body, "<script>")
	assert.NotContains(t, sender.body, "<b>")
	assert.Contains(t, sender.body, "&lt;script&gt;alert(1)&lt;/script&gt;")
	assert.Contains(t, sender.body, "Tom &amp; Jerry&#39;s &lt;b&gt;Barbearia&lt;/b&gt;")
}

func TestShopNotifier_NoEmailConfigured_Skips(t *testing.T) {
	sender := &recordingSender{}
	n := email.NewShopNotifier(sender, saoPaulo)

	err := n.AppointmentBooked(context.Background(), &domain.Barbershop{ID: "shop-1"}, testAppointment(), "+5511999999999")
	require.NoError(t, err)
	assert.Zero(t, sender.calls)
}

func TestShopNotifier_SenderError_Wrapped(t *testing.T) {
	sendErr := errors.New("resend down")
	n := email.NewShopNotifier(&recordingSender{err: sendErr}, saoPaulo)
	shop := &domain.Barbershop{ID: "shop-1", Email: "owner@navalha.test"}

	err := n.AppointmentBooked(context.Background(), shop, testAppointment(), "+5511999999999")
	assert.ErrorIs(t, err, sendErr)
}
