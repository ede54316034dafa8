package producers

import (
	"context"
	"log/slog"

	"github.com/agent-dashboard/internal/config"
)

// NewPublishers builds the transition and dead-letter publishers. With Kafka
// disabled both are backed by a LogEventPublisher.
func NewPublishers(ctx context.Context, logger *slog.Logger, cfg *config.KafkaConfig) (MessagePublisher, DeadLetterPublisher, error) {
	if !cfg.Enabled {
		logger.Info("Kafka disabled, transition events will be logged")
		lp := NewLogEventPublisher(logger)
		return lp, lp, nil
	}

	events, err := NewTransitionEventProducer(ctx, logger, cfg)
	if err != nil {
		return nil, nil, err
	}

	dlq, err := NewDLQProducer(ctx, logger, cfg)
	if err != nil {
		_ = events.Close()
		return nil, nil, err
	}
	if dlq == nil {
		return events, NewLogEventPublisher(logger), nil
	}
	return events, dlq, nil
}
