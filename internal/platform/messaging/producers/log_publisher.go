package producers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
)

// LogEventPublisher logs events instead of sending them to a broker. It is
// used when Kafka is disabled and satisfies both publisher interfaces.
type LogEventPublisher struct {
	logger *slog.Logger
}

var (
	_ MessagePublisher    = (*LogEventPublisher)(nil)
	_ DeadLetterPublisher = (*LogEventPublisher)(nil)
)

func NewLogEventPublisher(logger *slog.Logger) *LogEventPublisher {
	return &LogEventPublisher{logger: logger}
}

func (p *LogEventPublisher) Publish(ctx context.Context, key string, value interface{}) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	p.logger.InfoContext(ctx, "event published",
		slog.String("key", key),
		slog.String("payload", string(payload)),
	)
	return nil
}

func (p *LogEventPublisher) PublishToDLQ(ctx context.Context, key string, originalMessageValue []byte, reason string) error {
	p.logger.WarnContext(ctx, "event dead-lettered",
		slog.String("key", key),
		slog.String("reason", reason),
		slog.String("payload", string(originalMessageValue)),
	)
	return nil
}

func (p *LogEventPublisher) Close() error {
	return nil
}
