package producers

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/agent-dashboard/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogEventPublisher(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	publisher := NewLogEventPublisher(logger)
	ctx := context.Background()

	require.NoError(t, publisher.Publish(ctx, "deposit:1", map[string]string{"to_status": "CONFIRMED"}))
	require.NoError(t, publisher.PublishToDLQ(ctx, "deposit:2", []byte(`{}`), "reason write failed"))
	require.NoError(t, publisher.Close())

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	var published, deadLettered map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &published))
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &deadLettered))
	assert.Equal(t, "event published", published["msg"])
	assert.Equal(t, "deposit:1", published["key"])
	assert.Equal(t, "WARN", deadLettered["level"])
	assert.Equal(t, "reason write failed", deadLettered["reason"])
}

func TestNewPublishers_Disabled(t *testing.T) {
	events, dlq, err := NewPublishers(context.Background(), newTestLogger(), &config.KafkaConfig{Enabled: false})
	require.NoError(t, err)
	assert.IsType(t, &LogEventPublisher{}, events)
	assert.IsType(t, &LogEventPublisher{}, dlq)
}
