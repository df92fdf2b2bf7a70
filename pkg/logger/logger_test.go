package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestInit_RejectsUnknownLevel(t *testing.T) {
	_, err := Init("verbose", "test")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse log level")
}

func TestHelpers_AttachService(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	Set(zap.New(core))
	old := SetServiceName("sentinel-test")
	defer func() {
		Set(nil)
		SetServiceName(old)
	}()

	Info("evaluated %s", "BTCUSDT")
	Warn("retry in %ds", 5)

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "evaluated BTCUSDT", entries[0].Message)
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, "sentinel-test", entries[0].ContextMap()["service"])
}

func TestSet_NilFallsBackToNop(t *testing.T) {
	Set(nil)
	assert.NotNil(t, L())
	Info("dropped")
}
