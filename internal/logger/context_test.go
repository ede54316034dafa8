package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCorrelationIDContext(t *testing.T) {
	t.Run("RoundTrip", func(t *testing.T) {
		ctx := WithCorrelationID(context.Background(), "abc-123")
		assert.Equal(t, "abc-123", CorrelationID(ctx))
	})

	t.Run("MissingIsEmpty", func(t *testing.T) {
		assert.Equal(t, "", CorrelationID(context.Background()))
	})

	t.Run("EmptyIDLeavesContext", func(t *testing.T) {
		ctx := context.Background()
		assert.Equal(t, ctx, WithCorrelationID(ctx, ""))
	})
}
