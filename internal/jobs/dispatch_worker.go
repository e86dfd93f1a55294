package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"mercuri/internal/core/application/usecases/commands"
	"mercuri/internal/core/domain/model/kernel"
	"mercuri/internal/core/domain/model/offer"
	"mercuri/internal/observability"
	"mercuri/internal/pkg/errs"

	"github.com/cenkalti/backoff/v4"
)

var (
	ErrDispatchQueueFull    = fmt.Errorf("%w: dispatch queue is full", errs.ErrTransient)
	ErrDispatchQueueStopped = errors.New("dispatch queue is stopped")
)

// DispatchHandler runs one dispatch round.
type DispatchHandler interface {
	Handle(ctx context.Context, cmd commands.DispatchOrderCommand) ([]*offer.Offer, error)
}

type DispatchConfig struct {
	Workers       int
	QueueSize     int
	MaxRetries    int
	RetryInterval time.Duration
}

func (c DispatchConfig) withDefaults() DispatchConfig {
	if c.Workers <= 0 {
		c.Workers = 4
	}
	if c.QueueSize <= 0 {
		c.QueueSize = 256
	}
	if c.MaxRetries < 0 {
		c.MaxRetries = 0
	}
	if c.RetryInterval <= 0 {
		c.RetryInterval = time.Second
	}
	return c
}

// DispatchWorker is an in-process dispatch queue drained by a fixed pool of workers.
// Each round is retried on transient errors up to MaxRetries times.
type DispatchWorker struct {
	handler DispatchHandler
	cfg     DispatchConfig
	queue   chan kernel.UUID
	logger  *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewDispatchWorker(handler DispatchHandler, cfg DispatchConfig, logger *slog.Logger) *DispatchWorker {
	cfg = cfg.withDefaults()
	ctx, cancel := context.WithCancel(context.Background())

	return &DispatchWorker{
		handler: handler,
		cfg:     cfg,
		queue:   make(chan kernel.UUID, cfg.QueueSize),
		logger:  logger.With("component", "dispatch_worker"),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Enqueue implements ports.DispatchQueue. It never blocks: a full queue is reported
// as a transient error.
func (w *DispatchWorker) Enqueue(ctx context.Context, orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	select {
	case <-w.ctx.Done():
		return ErrDispatchQueueStopped
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	select {
	case w.queue <- orderID:
		return nil
	default:
		return ErrDispatchQueueFull
	}
}

func (w *DispatchWorker) Start() error {
	if w.ctx.Err() != nil {
		return ErrDispatchQueueStopped
	}

	for range w.cfg.Workers {
		w.wg.Add(1)
		go w.loop()
	}

	w.logger.Info("Dispatch worker started", "workers", w.cfg.Workers, "queue_size", w.cfg.QueueSize)
	return nil
}

// Stop cancels in-flight rounds and waits for the workers to exit. Queued orders
// that were never picked up are left to the reaper.
func (w *DispatchWorker) Stop() {
	w.cancel()
	w.wg.Wait()
	w.logger.Info("Dispatch worker stopped", "dropped", len(w.queue))
}

func (w *DispatchWorker) loop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.ctx.Done():
			return
		case orderID := <-w.queue:
			w.dispatch(w.ctx, orderID)
		}
	}
}

func (w *DispatchWorker) dispatch(ctx context.Context, orderID kernel.UUID) {
	log := w.logger.With("order_id", orderID.String())

	cmd, err := commands.NewDispatchOrderCommand(orderID)
	if err != nil {
		log.ErrorContext(ctx, "Invalid dispatch request", "error", err)
		return
	}

	var offers []*offer.Offer
	attempt := func() error {
		var err error
		offers, err = w.handler.Handle(ctx, cmd)
		observability.DispatchAttempts.WithLabelValues(attemptResult(err)).Inc()

		if err != nil && !errors.Is(err, errs.ErrTransient) {
			return backoff.Permanent(err)
		}
		return err
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = w.cfg.RetryInterval
	policy.MaxElapsedTime = 0

	retries := backoff.WithContext(backoff.WithMaxRetries(policy, uint64(w.cfg.MaxRetries)), ctx)
	err = backoff.RetryNotify(attempt, retries, func(err error, next time.Duration) {
		log.WarnContext(ctx, "Dispatch attempt failed, retrying", "error", err, "retry_in", next.String())
	})

	switch {
	case err == nil:
		observability.OffersDispatched.Add(float64(len(offers)))
		log.InfoContext(ctx, "Order dispatched", "offers", len(offers))
	case errors.Is(err, commands.ErrOrderNotPending), errors.Is(err, commands.ErrNoCandidatesFound):
		log.InfoContext(ctx, "Dispatch round ended without offers", "reason", err.Error())
	case ctx.Err() != nil:
		log.WarnContext(ctx, "Dispatch abandoned on shutdown")
	default:
		log.ErrorContext(ctx, "Dispatch abandoned", "error", err)
	}
}

func attemptResult(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, commands.ErrNoCandidatesFound):
		return "no_candidates"
	case errors.Is(err, commands.ErrOrderNotPending):
		return "not_pending"
	case errors.Is(err, errs.ErrTransient):
		return "transient"
	default:
		return "error"
	}
}
