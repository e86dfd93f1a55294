package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"mercuri/internal/core/application/usecases/commands"
	"mercuri/internal/observability"

	"github.com/robfig/cron/v3"
)

// ReapHandler runs one expiry pass.
type ReapHandler interface {
	Handle(ctx context.Context, cmd commands.ReapExpiredCommand) (commands.ReapResult, error)
}

// ExpirationReaperJob sweeps expired offers and orders on a fixed interval.
type ExpirationReaperJob struct {
	handler  ReapHandler
	interval time.Duration
	cron     *cron.Cron
	logger   *slog.Logger
}

func NewExpirationReaperJob(handler ReapHandler, interval time.Duration, logger *slog.Logger) *ExpirationReaperJob {
	return &ExpirationReaperJob{
		handler:  handler,
		interval: interval,
		cron:     cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		logger:   logger.With("component", "expiration_reaper_job"),
	}
}

// Start schedules the sweep. Intervals below a second are rejected.
func (j *ExpirationReaperJob) Start() error {
	if j.interval < time.Second {
		return fmt.Errorf("reaper interval must be at least 1s, got %s", j.interval)
	}

	_, err := j.cron.AddFunc("@every "+j.interval.String(), func() {
		j.RunOnce(context.Background())
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.Info("Expiration reaper started", "interval", j.interval.String())
	return nil
}

// RunOnce performs a single sweep and records what it retired.
func (j *ExpirationReaperJob) RunOnce(ctx context.Context) {
	res, err := j.handler.Handle(ctx, commands.NewReapExpiredCommand())

	if n := len(res.Offers); n > 0 {
		observability.ReaperSwept.WithLabelValues("offer").Add(float64(n))
	}
	if n := len(res.Orders); n > 0 {
		observability.ReaperSwept.WithLabelValues("order").Add(float64(n))
	}

	if err != nil {
		j.logger.ErrorContext(ctx, "Expiration reaper failed", "error", err)
		return
	}
	if len(res.Offers) > 0 || len(res.Orders) > 0 {
		j.logger.InfoContext(ctx, "Expired records swept", "offers", len(res.Offers), "orders", len(res.Orders))
	}
}

// Stop waits for a running sweep to finish.
func (j *ExpirationReaperJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.Info("Expiration reaper stopped")
}
