package email

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"time"

	"github.com/ErlanBelekov/barbershop-booking/internal/domain"
	"github.com/resend/resend-go/v2"
)

type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// LogSender writes the message to the log instead of delivering it (ENV=local).
type LogSender struct {
	logger *slog.Logger
}

func (s *LogSender) Send(ctx context.Context, to, subject, body string) error {
	s.logger.InfoContext(ctx, "email (local dev)", "to", to, "subject", subject, "body", body)
	return nil
}

type ResendSender struct {
	client *resend.Client
	from   string
}

func (s *ResendSender) Send(ctx context.Context, to, subject, body string) error {
	_, err := s.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{to},
		Subject: subject,
		Html:    body,
	})
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	return nil
}

func NewSender(env, apiKey, from string, logger *slog.Logger) Sender {
	if env == "local" {
		return &LogSender{logger: logger.With("component", "email")}
	}
	return &ResendSender{client: resend.NewClient(apiKey), from: from}
}

// ShopNotifier tells a barbershop about appointments booked through a link.
type ShopNotifier struct {
	sender Sender
	loc    *time.Location
}

func NewShopNotifier(sender Sender, loc *time.Location) *ShopNotifier {
	return &ShopNotifier{sender: sender, loc: loc}
}

func (n *ShopNotifier) AppointmentBooked(ctx context.Context, shop *domain.Barbershop, appt *domain.Appointment, customerPhone string) error {
	if shop.Email == "" {
		return nil
	}

	start := appt.StartTime.In(n.loc)
	subject := fmt.Sprintf("New appointment on %s", start.Format("02/01 15:04"))
	body := fmt.Sprintf(
		`<p>%s booked an appointment at %s for %s-%s.</p><p>Appointment ID: %s</p>`,
		html.EscapeString(customerPhone), html.EscapeString(shop.Name), start.Format("02/01/2006 15:04"), appt.EndTime.In(n.loc).Format("15:04"), appt.ID,
	)
	if err := n.sender.Send(ctx, shop.Email, subject, body); err != nil {
		return fmt.Errorf("notify barbershop %s: %w", shop.ID, err)
	}
	return nil
}
