package logger

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew_Formats(t *testing.T) {
	for _, format := range []string{"text", "json"} {
		log, err := New(LogConfig{Level: "debug", Format: format})
		require.NoError(t, err, format)
		assert.True(t, log.Core().Enabled(zapcore.DebugLevel))
	}
}

func TestNew_UnknownLevelFallsBackToInfo(t *testing.T) {
	log, err := New(LogConfig{Level: "chatty", Format: "text"})
	require.NoError(t, err)
	assert.False(t, log.Core().Enabled(zapcore.DebugLevel))
	assert.True(t, log.Core().Enabled(zapcore.InfoLevel))
}

func TestNew_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "service.log")
	log, err := New(LogConfig{Level: "info", Format: "json", Output: path})
	require.NoError(t, err)
	log.Info("written", "key", "value")
	log.Sync()
	assert.FileExists(t, path)
}

func TestConvertFields(t *testing.T) {
	fields := convertFields("a", 1, 2, "skipped", "error", errors.New("boom"), "dangling")
	require.Len(t, fields, 2)
	assert.Equal(t, "a", fields[0].Key)
	assert.Equal(t, "error", fields[1].Key)
	assert.Equal(t, zapcore.ErrorType, fields[1].Type)
}

func TestWithAndNamed(t *testing.T) {
	log := NewNopLogger().With("request_id", "abc").Named("scene")
	assert.NotNil(t, log)
	log.Debug("no-op")
}

func TestFromContext(t *testing.T) {
	fallback := NewNopLogger()
	assert.Same(t, fallback, FromContext(context.Background(), fallback))

	stored := NewNopLogger().With("request_id", "r-1")
	ctx := WithContext(context.Background(), stored)
	assert.Same(t, stored, FromContext(ctx, fallback))
}
