package fanout

import (
	"context"
	"fmt"
	"time"

	"mercuri/internal/core/ports"

	"github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaNotifier writes notifications to one topic keyed by recipient, so a user's
// events stay ordered within a partition.
type KafkaNotifier struct {
	writer messageWriter
	clock  ports.Clock
}

func NewKafkaNotifier(brokers []string, topic string, clock ports.Clock) *KafkaNotifier {
	return newKafkaNotifier(&kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 10 * time.Millisecond,
	}, clock)
}

func newKafkaNotifier(w messageWriter, clock ports.Clock) *KafkaNotifier {
	return &KafkaNotifier{writer: w, clock: clock}
}

func (k *KafkaNotifier) Publish(ctx context.Context, n ports.Notification) error {
	body, err := encode(n, k.clock.Now())
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Key:   []byte(n.Recipient.String()),
		Value: body,
		Headers: []kafka.Header{
			{Key: "event", Value: []byte(n.Type)},
		},
	}
	if err := k.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka publish %s: %w", n.Type, err)
	}
	return nil
}

func (k *KafkaNotifier) Close() error {
	return k.writer.Close()
}
