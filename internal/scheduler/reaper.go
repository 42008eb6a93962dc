package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ErlanBelekov/barbershop-booking/internal/metrics"
	"github.com/robfig/cron/v3"
)

const reapBatchSize = 500

type expiredTokenDeleter interface {
	DeleteExpired(ctx context.Context, cutoff time.Time, limit int) (int, error)
}

// TokenReaper deletes booking tokens that expired more than retention ago.
// Validation never deletes; rows stay around for auditing until reaped.
type TokenReaper struct {
	repo      expiredTokenDeleter
	logger    *slog.Logger
	spec      string
	retention time.Duration
	now       func() time.Time
}

func NewTokenReaper(repo expiredTokenDeleter, logger *slog.Logger, spec string, retention time.Duration) *TokenReaper {
	return &TokenReaper{
		repo:      repo,
		logger:    logger.With("component", "token_reaper"),
		spec:      spec,
		retention: retention,
		now:       time.Now,
	}
}

// Start runs Reap on the cron spec until ctx is cancelled. It returns an error
// only for an unparsable spec.
func (r *TokenReaper) Start(ctx context.Context) error {
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	if _, err := c.AddFunc(r.spec, func() { r.Reap(ctx) }); err != nil {
		return fmt.Errorf("reaper schedule %q: %w", r.spec, err)
	}

	r.logger.Info("reaper started", "schedule", r.spec, "retention", r.retention)
	c.Start()

	<-ctx.Done()
	<-c.Stop().Done()
	r.logger.Info("reaper shut down")
	return nil
}

// Reap deletes in batches until a batch comes back short. Returns the total deleted.
func (r *TokenReaper) Reap(ctx context.Context) int {
	start := time.Now()
	defer func() {
		metrics.ReaperCycleDuration.Observe(time.Since(start).Seconds())
	}()

	cutoff := r.now().Add(-r.retention)
	total := 0
	for ctx.Err() == nil {
		n, err := r.repo.DeleteExpired(ctx, cutoff, reapBatchSize)
		if err != nil {
			r.logger.ErrorContext(ctx, "delete expired booking tokens", "error", err)
			break
		}
		total += n
		metrics.ReaperDeletedTotal.Add(float64(n))
		if n < reapBatchSize {
			break
		}
	}

	if total > 0 {
		r.logger.InfoContext(ctx, "reaped expired booking tokens", "count", total, "cutoff", cutoff)
	}
	return total
}
