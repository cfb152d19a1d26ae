package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLoggerAdapter_Fields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := NewFromCore(core)

	log.WithField("invocation_id", "abc").
		WithFields(map[string]any{"variant": "url"}).
		Info("Evaluation started", "url", "https://example.com")

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "Evaluation started", entries[0].Message)
	ctx := entries[0].ContextMap()
	assert.Equal(t, "abc", ctx["invocation_id"])
	assert.Equal(t, "url", ctx["variant"])
	assert.Equal(t, "https://example.com", ctx["url"])
}

func TestLoggerAdapter_Named(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := NewFromCore(core).Named("browser")

	log.Warn("Session close failed")

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "browser", entries[0].LoggerName)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
}

func TestNewLoggerAdapter_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log", "askseer.log")

	log, err := NewLoggerAdapter(Config{Level: "debug", Format: "json", File: path})
	require.NoError(t, err)

	log.Debug("hello", "key", "value")
	require.NoError(t, log.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"message":"hello"`)
	assert.Contains(t, string(data), `"key":"value"`)
}

func TestNewLoggerAdapter_InvalidConfig(t *testing.T) {
	_, err := NewLoggerAdapter(Config{Level: "loud"})
	assert.Error(t, err)

	_, err = NewLoggerAdapter(Config{Format: "xml"})
	assert.Error(t, err)
}
