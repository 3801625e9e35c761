package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"

	"github.com/satisfyhq/satisfy/internal/config"
)

// InteractionEvent is the wire shape published for each recorded like or
// dislike. Downstream consumers (analytics, vendor dashboards) key on the
// product identifier.
type InteractionEvent struct {
	InteractionID uuid.UUID `json:"interaction_id"`
	ProductID     int64     `json:"product_id"`
	Type          string    `json:"type"`
	CustomerEmail string    `json:"customer_email,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}

// InteractionPublisher is the producer surface the interaction service uses.
type InteractionPublisher interface {
	PublishInteraction(ctx context.Context, event InteractionEvent) error
	Close() error
}

type KafkaPublisher struct {
	writer *kafka.Writer
	logger *logrus.Logger
}

func NewKafkaPublisher(cfg *config.KafkaConfig, logger *logrus.Logger) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(cfg.Brokers...),
			Topic:        cfg.Topics.ProductInteractions,
			Balancer:     &kafka.Hash{}, // Key by product ID so per-product ordering holds
			RequiredAcks: kafka.RequireOne,
			Async:        false,
			BatchTimeout: 10 * time.Millisecond,
			BatchSize:    100,
		},
		logger: logger,
	}
}

func (p *KafkaPublisher) PublishInteraction(ctx context.Context, event InteractionEvent) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal interaction event: %w", err)
	}

	message := kafka.Message{
		Key:   []byte(fmt.Sprintf("%d", event.ProductID)),
		Value: value,
		Headers: []kafka.Header{
			{Key: "interaction_id", Value: []byte(event.InteractionID.String())},
			{Key: "type", Value: []byte(event.Type)},
			{Key: "timestamp", Value: []byte(event.Timestamp.Format(time.RFC3339))},
		},
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := p.writer.WriteMessages(ctx, message); err != nil {
		return fmt.Errorf("failed to write interaction event: %w", err)
	}

	p.logger.WithFields(logrus.Fields{
		"interaction_id": event.InteractionID,
		"product_id":     event.ProductID,
		"type":           event.Type,
	}).Debug("Interaction event published")

	return nil
}

func (p *KafkaPublisher) Close() error {
	if err := p.writer.Close(); err != nil {
		return fmt.Errorf("failed to close interaction publisher: %w", err)
	}
	return nil
}

// NoopPublisher stands in when Kafka is disabled.
type NoopPublisher struct{}

func (NoopPublisher) PublishInteraction(context.Context, InteractionEvent) error { return nil }
func (NoopPublisher) Close() error                                               { return nil }
