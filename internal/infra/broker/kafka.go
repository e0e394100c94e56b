package broker

import (
	"context"
	"log/slog"

	"marketplace-checkout/internal/pkg/config"
	"marketplace-checkout/internal/pkg/errs"
	"marketplace-checkout/internal/usecase/shared"

	"github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes outbox events to "<prefix>.<topic>", keyed so that
// events of one order land on one partition.
type KafkaPublisher struct {
	w      messageWriter
	prefix string
}

func NewKafkaPublisher(cfg config.KafkaConfig) *KafkaPublisher {
	return &KafkaPublisher{
		w: &kafka.Writer{
			Addr:                   kafka.TCP(cfg.Brokers...),
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireAll,
			WriteTimeout:           cfg.WriteTimeout,
			AllowAutoTopicCreation: true,
		},
		prefix: cfg.TopicPrefix,
	}
}

var _ shared.EventPublisher = (*KafkaPublisher)(nil)

func (p *KafkaPublisher) Publish(ctx context.Context, events []shared.OutboxEvent) error {
	if len(events) == 0 {
		return nil
	}
	msgs := make([]kafka.Message, 0, len(events))
	for _, e := range events {
		msgs = append(msgs, toMessage(p.prefix, e))
	}
	if err := p.w.WriteMessages(ctx, msgs...); err != nil {
		return errs.Wrapf(err, "publish %d events", len(msgs))
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.w.Close()
}

func toMessage(prefix string, e shared.OutboxEvent) kafka.Message {
	topic := e.Topic
	if prefix != "" {
		topic = prefix + "." + e.Topic
	}
	return kafka.Message{
		Topic: topic,
		Key:   []byte(e.Key),
		Value: e.Payload,
		Time:  e.CreatedAt,
		Headers: []kafka.Header{
			{Key: "event_id", Value: []byte(e.ID.String())},
		},
	}
}

// LogPublisher stands in for the broker when none is configured.
type LogPublisher struct{}

var _ shared.EventPublisher = LogPublisher{}

func (LogPublisher) Publish(_ context.Context, events []shared.OutboxEvent) error {
	for _, e := range events {
		slog.Info("outbox event",
			"event_id", e.ID,
			"topic", e.Topic,
			"key", e.Key,
			"payload", string(e.Payload),
		)
	}
	return nil
}
