package config

import (
	"os"
	"path/filepath"
	"testing"

	"SignalSentinel/internal/calculator"
	"SignalSentinel/internal/strategy"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, []string{"BTCUSDT", "ETHUSDT"}, cfg.Pairs)
	assert.Equal(t, "4h", cfg.Timeframes.Execution)
	assert.Equal(t, "1d", cfg.Timeframes.Confirmation)
	assert.Equal(t, 300, cfg.Timeframes.Window)
	assert.Equal(t, 300, cfg.PollIntervalSeconds)
	assert.True(t, *cfg.RunOnStart)
	assert.True(t, *cfg.Telegram.Commands)
	assert.Equal(t, "file", cfg.State.Backend)
	assert.Equal(t, calculator.DefaultPeriods(), cfg.Periods())
	assert.Equal(t, strategy.DefaultThresholds(), cfg.StrategyThresholds())
	assert.False(t, cfg.TelegramEnabled())
}

func TestLoad_YAML(t *testing.T) {
	path := writeConfig(t, `
pairs: [SOLUSDT]
timeframes: {execution: 1h, confirmation: 4h, window: 200}
poll_interval_seconds: 60
run_on_start: false
indicators: {backend: talib, rsi_period: 7}
thresholds: {rsi_oversold: 0, rsi_overbought: 80}
telegram: {bot_token: "123:abc", chat_id: -100200, commands: false}
state: {backend: sqlite, sqlite_path: /tmp/s.db}
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, []string{"SOLUSDT"}, cfg.Pairs)
	assert.Equal(t, "1h", cfg.Timeframes.Execution)
	assert.Equal(t, 60, cfg.PollIntervalSeconds)
	assert.False(t, *cfg.RunOnStart)
	assert.False(t, *cfg.Telegram.Commands)
	assert.Equal(t, "talib", cfg.Indicators.Backend)
	assert.Equal(t, 7, cfg.Periods().RSI)
	assert.Equal(t, 26, cfg.Periods().MACDSlow)

	th := cfg.StrategyThresholds()
	assert.Equal(t, 0.0, th.RSIOversold, "an explicit zero is kept")
	assert.Equal(t, 80.0, th.RSIOverbought)
	assert.Equal(t, 50.0, th.RSINeutral)
	assert.True(t, cfg.TelegramEnabled())
	assert.Equal(t, int64(-100200), cfg.Telegram.ChatID)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PAIRS", "btcusdt, xrpusdt ,")
	t.Setenv("POLL_INTERVAL_SECONDS", "120")
	t.Setenv("TELEGRAM_BOT_TOKEN", "999:zzz")
	t.Setenv("TELEGRAM_CHAT_ID", "42")
	t.Setenv("STATE_BACKEND", "redis")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("BINANCE_BASE_URL", "http://localhost:1234")

	cfg, err := Load(writeConfig(t, "pairs: [ETHUSDT]\npoll_interval_seconds: 30\n"))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, []string{"BTCUSDT", "XRPUSDT"}, cfg.Pairs)
	assert.Equal(t, 120, cfg.PollIntervalSeconds)
	assert.Equal(t, int64(42), cfg.Telegram.ChatID)
	assert.Equal(t, "redis", cfg.State.Backend)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "http://localhost:1234", cfg.Exchange.BaseURL)
}

func TestLoad_BadEnv(t *testing.T) {
	t.Setenv("TELEGRAM_CHAT_ID", "not-a-number")
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoad_BadYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "pairs: [unterminated"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"unknown interval", "timeframes: {execution: 7h}"},
		{"window too short", "timeframes: {window: 33}"},
		{"window too long", "timeframes: {window: 1001}"},
		{"fast not below slow", "indicators: {macd_fast: 26, macd_slow: 26}"},
		{"negative period", "indicators: {rsi_period: -1}"},
		{"neutral out of order", "thresholds: {rsi_neutral: 80}"},
		{"zero multiplier", "thresholds: {volume_multiplier: 0}"},
		{"negative poll", "poll_interval_seconds: -5"},
		{"unknown backend", "indicators: {backend: gpu}"},
		{"unknown state", "state: {backend: etcd}"},
		{"redis without addr", "state: {backend: redis}"},
		{"token without chat", `telegram: {bot_token: "1:a"}`},
		{"lower-case pair", "pairs: [btcusdt]"},
		{"unknown source", "exchange: {source: kraken}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(writeConfig(t, tt.yaml))
			require.NoError(t, err)
			assert.Error(t, cfg.Validate())
		})
	}
}
