package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ErlanBelekov/barbershop-booking/internal/domain"
	"github.com/ErlanBelekov/barbershop-booking/internal/events"
	"github.com/ErlanBelekov/barbershop-booking/internal/metrics"
	"github.com/ErlanBelekov/barbershop-booking/internal/repository"
	"github.com/ErlanBelekov/barbershop-booking/internal/token"
)

type BookingLinkUsecase struct {
	tokens    repository.BookingTokenRepository
	catalog   repository.CatalogRepository
	publisher events.Publisher
	logger    *slog.Logger
	baseURL   string
	now       func() time.Time
}

func NewBookingLinkUsecase(
	tokens repository.BookingTokenRepository,
	catalog repository.CatalogRepository,
	publisher events.Publisher,
	logger *slog.Logger,
	baseURL string,
) *BookingLinkUsecase {
	return &BookingLinkUsecase{
		tokens:    tokens,
		catalog:   catalog,
		publisher: publisher,
		logger:    logger.With("component", "booking_link_usecase"),
		baseURL:   strings.TrimRight(baseURL, "/"),
		now:       time.Now,
	}
}

type IssueInput struct {
	BarbershopID  string
	BarberID      *string
	CustomerPhone string
	ExpiryMinutes int // 0 = token.DefaultExpiryMinutes
}

type IssueResult struct {
	BookingURL string
	ExpiresAt  time.Time
}

// Issue checks that the barbershop exists (and that a pinned barber works
// there), then mints a single-use link. Only the token hash is stored.
func (u *BookingLinkUsecase) Issue(ctx context.Context, input IssueInput) (*IssueResult, error) {
	if _, err := u.catalog.GetBarbershop(ctx, input.BarbershopID); err != nil {
		return nil, fmt.Errorf("get barbershop: %w", err)
	}
	if input.BarberID != nil {
		barber, err := u.catalog.GetBarber(ctx, *input.BarberID)
		if err != nil {
			return nil, fmt.Errorf("get barber: %w", err)
		}
		if barber.BarbershopID != input.BarbershopID {
			return nil, domain.ErrBarberNotFound
		}
	}

	result, err := u.issue(ctx, input)
	if err != nil {
		return nil, err
	}
	metrics.BookingLinksIssuedTotal.Inc()

	err = u.publisher.Publish(ctx, events.SubjectBookingLinkIssued, events.BookingLinkIssued{
		BarbershopID:  input.BarbershopID,
		BarberID:      input.BarberID,
		CustomerPhone: input.CustomerPhone,
		BookingURL:    result.BookingURL,
		ExpiresAt:     result.ExpiresAt,
	})
	if err != nil {
		// the link is already valid; the caller still gets it in the response
		u.logger.WarnContext(ctx, "publish booking link issued", "error", err)
	}

	return result, nil
}

func (u *BookingLinkUsecase) issue(ctx context.Context, input IssueInput) (*IssueResult, error) {
	plaintext, hash, err := token.Generate()
	if err != nil {
		return nil, err
	}
	expiresAt := token.ExpiresAt(u.now(), input.ExpiryMinutes)

	_, err = u.tokens.Create(ctx, repository.CreateBookingTokenInput{
		TokenHash:     hash,
		BarbershopID:  input.BarbershopID,
		BarberID:      input.BarberID,
		CustomerPhone: input.CustomerPhone,
		ExpiresAt:     expiresAt,
		SingleUse:     true,
	})
	if err != nil {
		return nil, fmt.Errorf("store booking token: %w", err)
	}

	return &IssueResult{
		BookingURL: u.baseURL + "/booking/" + plaintext,
		ExpiresAt:  expiresAt,
	}, nil
}

// Validate redeems a plaintext token. The attempt is counted before the
// state check so accounting does not depend on the outcome. Consumption is a
// conditional write; a validator that loses the race sees ErrTokenAlreadyUsed.
func (u *BookingLinkUsecase) Validate(ctx context.Context, plaintext string) (*domain.BookingSession, error) {
	now := u.now()

	t, err := u.tokens.FindByHash(ctx, token.Hash(plaintext))
	if err != nil {
		return nil, fmt.Errorf("find booking token: %w", err)
	}

	if t != nil {
		if err := u.tokens.IncrementAttempts(ctx, t.ID, now); err != nil {
			return nil, fmt.Errorf("record validation attempt: %w", err)
		}
	}

	state := token.Evaluate(t, now)
	if state != domain.TokenValid {
		metrics.TokenValidationsTotal.WithLabelValues(string(state)).Inc()
		return nil, state.Err()
	}

	if t.SingleUse {
		claimed, err := u.tokens.MarkUsed(ctx, t.ID, now)
		if err != nil {
			return nil, fmt.Errorf("mark booking token used: %w", err)
		}
		if !claimed {
			metrics.TokenValidationsTotal.WithLabelValues(string(domain.TokenAlreadyUsed)).Inc()
			return nil, domain.ErrTokenAlreadyUsed
		}
	}

	metrics.TokenValidationsTotal.WithLabelValues(string(domain.TokenValid)).Inc()
	return &domain.BookingSession{
		BarbershopID:  t.BarbershopID,
		BarberID:      t.BarberID,
		CustomerPhone: t.CustomerPhone,
		TokenID:       t.ID,
	}, nil
}
