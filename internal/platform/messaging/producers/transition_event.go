package producers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/agent-dashboard/internal/config"
	"github.com/segmentio/kafka-go"
)

// TransitionEventProducer publishes transaction transition events to Kafka
type TransitionEventProducer struct {
	logger *slog.Logger
	writer KafkaWriter
	topic  string
}

// NewTransitionEventProducer creates the producer and ensures its topic exists
func NewTransitionEventProducer(ctx context.Context, logger *slog.Logger, cfg *config.KafkaConfig) (*TransitionEventProducer, error) {
	if cfg.TransitionTopic == "" {
		return nil, fmt.Errorf("kafka transition topic is not configured")
	}

	conn, err := kafka.DialContext(ctx, "tcp", cfg.Brokers)
	if err != nil {
		return nil, fmt.Errorf("failed to dial kafka for transition producer: %w", err)
	}
	defer conn.Close()

	if err := ensureTopic(conn, cfg.TransitionTopic, cfg.NumPartitions, cfg.ReplicationFactor, logger); err != nil {
		return nil, fmt.Errorf("failed to ensure transition topic %s exists: %w", cfg.TransitionTopic, err)
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers),
		Topic:        cfg.TransitionTopic,
		Balancer:     &kafka.Hash{}, // Keep events of one transaction on one partition
		RequiredAcks: kafka.RequireOne,
		WriteTimeout: cfg.WriteTimeout,
	}

	return &TransitionEventProducer{
		logger: logger,
		writer: writer,
		topic:  cfg.TransitionTopic,
	}, nil
}

// Publish writes value as JSON under key
func (p *TransitionEventProducer) Publish(ctx context.Context, key string, value interface{}) error {
	jsonValue, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal transition event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: jsonValue,
		Headers: []kafka.Header{
			{Key: "content-type", Value: []byte("application/json")},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("Failed to publish transition event",
			"topic", p.topic,
			"key", key,
			"error", err,
		)
		return fmt.Errorf("failed to publish transition event to %s: %w", p.topic, err)
	}

	p.logger.Debug("Published transition event", "topic", p.topic, "key", key)
	return nil
}

// Close flushes and closes the underlying writer
func (p *TransitionEventProducer) Close() error {
	p.logger.Info("Closing transition event producer", "topic", p.topic)
	if err := p.writer.Close(); err != nil {
		return fmt.Errorf("failed to close kafka writer for topic %s: %w", p.topic, err)
	}
	return nil
}
