package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"
)

// ProducerConfig configures the Kafka producer.
type ProducerConfig struct {
	Brokers      []string      `env:"KAFKA_BROKERS" envSeparator:"," envDefault:"localhost:9092"`
	BatchTimeout time.Duration `env:"KAFKA_BATCH_TIMEOUT" envDefault:"100ms"`
	WriteTimeout time.Duration `env:"KAFKA_WRITE_TIMEOUT" envDefault:"10s"`
}

// writer is the subset of kafka.Writer the producer uses, extracted so tests
// can substitute a fake.
type writer interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Producer publishes enveloped events to Kafka topics.
type Producer struct {
	writer writer
	logger *slog.Logger
}

// NewProducer builds a producer writing to the configured brokers. Topics
// are chosen per message.
func NewProducer(cfg ProducerConfig, l *slog.Logger) *Producer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.Brokers...),
		Balancer:     &kafkago.LeastBytes{},
		BatchTimeout: cfg.BatchTimeout,
		WriteTimeout: cfg.WriteTimeout,
		RequiredAcks: kafkago.RequireOne,
	}
	return &Producer{writer: w, logger: l}
}

// newProducerWithWriter is used by tests.
func newProducerWithWriter(w writer, l *slog.Logger) *Producer {
	return &Producer{writer: w, logger: l}
}

// Publish serializes the event and writes it to the topic, keyed for
// partition affinity. The error is returned to the caller; callers that
// treat events as best-effort log and continue.
func (p *Producer) Publish(ctx context.Context, topic, key string, event Event) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event %s: %w", event.Type, err)
	}

	msg := kafkago.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: value,
		Headers: []kafkago.Header{
			{Key: "event_type", Value: []byte(event.Type)},
			{Key: "event_id", Value: []byte(event.ID)},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		recordPublishError(topic)
		return fmt.Errorf("write message to %s: %w", topic, err)
	}

	recordPublish(topic)
	p.logger.DebugContext(ctx, "published event",
		slog.String("topic", topic),
		slog.String("event_type", event.Type),
		slog.String("event_id", event.ID),
	)
	return nil
}

// Close flushes and closes the underlying writer.
func (p *Producer) Close() error {
	return p.writer.Close()
}
