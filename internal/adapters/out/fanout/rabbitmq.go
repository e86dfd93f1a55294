package fanout

import (
	"context"
	"fmt"

	"mercuri/internal/core/ports"

	amqp "github.com/rabbitmq/amqp091-go"
)

type amqpPublisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// RabbitMQNotifier publishes to a durable topic exchange. Clients bind to
// user.<id>.# to receive their own events.
type RabbitMQNotifier struct {
	exchange string
	ch       amqpPublisher
	clock    ports.Clock
	closers  []func() error
}

func NewRabbitMQNotifier(url, exchange string, clock ports.Clock) (*RabbitMQNotifier, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open rabbitmq channel: %w", err)
	}

	if err := ch.ExchangeDeclare(exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}

	n := newRabbitMQNotifier(ch, exchange, clock)
	n.closers = []func() error{ch.Close, conn.Close}
	return n, nil
}

func newRabbitMQNotifier(ch amqpPublisher, exchange string, clock ports.Clock) *RabbitMQNotifier {
	return &RabbitMQNotifier{exchange: exchange, ch: ch, clock: clock}
}

func (r *RabbitMQNotifier) Publish(ctx context.Context, n ports.Notification) error {
	now := r.clock.Now()
	body, err := encode(n, now)
	if err != nil {
		return err
	}

	err = r.ch.PublishWithContext(ctx, r.exchange, RoutingKey(n), false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    now,
		Type:         string(n.Type),
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("rabbitmq publish %s: %w", n.Type, err)
	}
	return nil
}

// RoutingKey is user.<recipient>.<event>.
func RoutingKey(n ports.Notification) string {
	return fmt.Sprintf("user.%s.%s", n.Recipient.String(), n.Type)
}

func (r *RabbitMQNotifier) Close() error {
	var first error
	for _, c := range r.closers {
		if err := c(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
