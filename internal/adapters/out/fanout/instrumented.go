package fanout

import (
	"context"

	"mercuri/internal/core/ports"
	"mercuri/internal/observability"
)

// Instrumented counts failed publishes per event type and passes errors through.
type Instrumented struct {
	next ports.Notifier
}

func NewInstrumented(next ports.Notifier) *Instrumented {
	return &Instrumented{next: next}
}

func (i *Instrumented) Publish(ctx context.Context, n ports.Notification) error {
	err := i.next.Publish(ctx, n)
	if err != nil {
		observability.FanoutFailures.WithLabelValues(string(n.Type)).Inc()
	}
	return err
}
