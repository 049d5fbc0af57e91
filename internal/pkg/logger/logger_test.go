package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestContextFieldsAreAttached(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	SetLogger(zap.New(core))
	t.Cleanup(func() { SetLogger(zap.NewNop()) })

	ctx := WithFields(context.Background(), "request_id", "abc")
	ctx = WithFields(ctx, "user_id", 7)

	Warnf(ctx, "slow query %d", 3)
	Infof(context.Background(), "plain")

	entries := logs.AllUntimed()
	require.Len(t, entries, 2)

	assert.Equal(t, "slow query 3", entries[0].Message)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	fields := entries[0].ContextMap()
	assert.Equal(t, "abc", fields["request_id"])
	assert.EqualValues(t, 7, fields["user_id"])

	assert.Empty(t, entries[1].ContextMap())
}

func TestInitRejectsUnknownLevel(t *testing.T) {
	assert.Error(t, Init("loud", false))
}
