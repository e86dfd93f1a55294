package fanout

import (
	"context"
	"log/slog"

	"mercuri/internal/core/ports"
)

// LogNotifier writes notifications to the structured log instead of a broker.
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger.With("component", "fanout")}
}

func (l *LogNotifier) Publish(ctx context.Context, n ports.Notification) error {
	l.logger.InfoContext(ctx, "notification",
		"recipient", n.Recipient.String(),
		"event", string(n.Type),
		"payload", n.Payload,
	)
	return nil
}
