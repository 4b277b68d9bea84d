package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger(LoggerOptions{Level: "debug", Format: "json"})
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))

	logger, err = NewLogger(LoggerOptions{})
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zapcore.DebugLevel))
	assert.True(t, logger.Core().Enabled(zapcore.InfoLevel))

	_, err = NewLogger(LoggerOptions{Level: "loud"})
	require.Error(t, err)

	_, err = NewLogger(LoggerOptions{Format: "xml"})
	require.Error(t, err)
}

func TestRunIDContext(t *testing.T) {
	_, ok := RunIDFromContext(context.Background())
	assert.False(t, ok)

	id := NewRunID()
	ctx := WithRunID(context.Background(), id)
	got, ok := RunIDFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, id, got)

	assert.Equal(t, context.Background(), WithRunID(context.Background(), ""))
}
