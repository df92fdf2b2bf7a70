package config

import (
	"os"
	"strconv"
	"strings"

	"SignalSentinel/internal/calculator"
	"SignalSentinel/internal/strategy"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// binanceIntervals are the kline intervals accepted by the exchange.
var binanceIntervals = map[string]bool{
	"1m": true, "3m": true, "5m": true, "15m": true, "30m": true,
	"1h": true, "2h": true, "4h": true, "6h": true, "8h": true, "12h": true,
	"1d": true, "3d": true, "1w": true, "1M": true,
}

// Config holds all application configuration.
type Config struct {
	Pairs    []string `yaml:"pairs"`
	Exchange struct {
		Source         string `yaml:"source"` // binance or mock
		BaseURL        string `yaml:"base_url"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
	} `yaml:"exchange"`
	Timeframes struct {
		Execution    string `yaml:"execution"`
		Confirmation string `yaml:"confirmation"`
		Window       int    `yaml:"window"`
	} `yaml:"timeframes"`
	PollIntervalSeconds int   `yaml:"poll_interval_seconds"`
	RunOnStart          *bool `yaml:"run_on_start"`
	Indicators          struct {
		Backend        string `yaml:"backend"`
		RSIPeriod      int    `yaml:"rsi_period"`
		MACDFast       int    `yaml:"macd_fast"`
		MACDSlow       int    `yaml:"macd_slow"`
		MACDSignal     int    `yaml:"macd_signal"`
		VolumeMAPeriod int    `yaml:"volume_ma_period"`
		EMAPeriod      int    `yaml:"ema_period"`
	} `yaml:"indicators"`
	Thresholds struct {
		RSIOversold      *float64 `yaml:"rsi_oversold"`
		RSIOverbought    *float64 `yaml:"rsi_overbought"`
		RSINeutral       *float64 `yaml:"rsi_neutral"`
		VolumeMultiplier *float64 `yaml:"volume_multiplier"`
	} `yaml:"thresholds"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   int64  `yaml:"chat_id"`
		Commands *bool  `yaml:"commands"`
	} `yaml:"telegram"`
	State struct {
		Backend    string `yaml:"backend"` // file, sqlite, redis or memory
		File       string `yaml:"file"`
		SQLitePath string `yaml:"sqlite_path"`
		RedisAddr  string `yaml:"redis_addr"`
		RedisKey   string `yaml:"redis_key"`
	} `yaml:"state"`
	Metrics struct {
		Addr string `yaml:"addr"` // empty disables the HTTP server
	} `yaml:"metrics"`
	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable
// overrides and defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, errors.Wrap(err, "read config")
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrap(err, "parse config")
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		c.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return errors.Wrap(err, "TELEGRAM_CHAT_ID")
		}
		c.Telegram.ChatID = id
	}
	if v := os.Getenv("PAIRS"); v != "" {
		c.Pairs = splitList(v)
	}
	if v := os.Getenv("POLL_INTERVAL_SECONDS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return errors.Wrap(err, "POLL_INTERVAL_SECONDS")
		}
		c.PollIntervalSeconds = n
	}
	if v := os.Getenv("STATE_BACKEND"); v != "" {
		c.State.Backend = v
	}
	if v := os.Getenv("STATE_FILE"); v != "" {
		c.State.File = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		c.State.SQLitePath = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.State.RedisAddr = v
	}
	if v := os.Getenv("INDICATOR_BACKEND"); v != "" {
		c.Indicators.Backend = v
	}
	if v := os.Getenv("METRICS_ADDR"); v != "" {
		c.Metrics.Addr = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		c.Proxy = v
	}
	if v := os.Getenv("BINANCE_BASE_URL"); v != "" {
		c.Exchange.BaseURL = v
	}
	return nil
}

func (c *Config) applyDefaults() {
	if len(c.Pairs) == 0 {
		c.Pairs = []string{"BTCUSDT", "ETHUSDT"}
	}
	if c.Exchange.Source == "" {
		c.Exchange.Source = "binance"
	}
	if c.Exchange.BaseURL == "" {
		c.Exchange.BaseURL = "https://api.binance.com"
	}
	if c.Exchange.TimeoutSeconds == 0 {
		c.Exchange.TimeoutSeconds = 15
	}
	if c.Timeframes.Execution == "" {
		c.Timeframes.Execution = "4h"
	}
	if c.Timeframes.Confirmation == "" {
		c.Timeframes.Confirmation = "1d"
	}
	if c.Timeframes.Window == 0 {
		c.Timeframes.Window = 300
	}
	if c.PollIntervalSeconds == 0 {
		c.PollIntervalSeconds = 300
	}
	if c.RunOnStart == nil {
		c.RunOnStart = boolPtr(true)
	}

	p := calculator.DefaultPeriods()
	if c.Indicators.Backend == "" {
		c.Indicators.Backend = "native"
	}
	setInt(&c.Indicators.RSIPeriod, p.RSI)
	setInt(&c.Indicators.MACDFast, p.MACDFast)
	setInt(&c.Indicators.MACDSlow, p.MACDSlow)
	setInt(&c.Indicators.MACDSignal, p.MACDSignal)
	setInt(&c.Indicators.VolumeMAPeriod, p.VolumeMA)
	setInt(&c.Indicators.EMAPeriod, p.EMA)

	th := strategy.DefaultThresholds()
	setFloat(&c.Thresholds.RSIOversold, th.RSIOversold)
	setFloat(&c.Thresholds.RSIOverbought, th.RSIOverbought)
	setFloat(&c.Thresholds.RSINeutral, th.RSINeutral)
	setFloat(&c.Thresholds.VolumeMultiplier, th.VolumeMultiplier)

	if c.Telegram.Commands == nil {
		c.Telegram.Commands = boolPtr(true)
	}
	if c.State.Backend == "" {
		c.State.Backend = "file"
	}
	if c.State.File == "" {
		c.State.File = "data/last_signals.json"
	}
	if c.State.SQLitePath == "" {
		c.State.SQLitePath = "data/signals.db"
	}
	if c.State.RedisKey == "" {
		c.State.RedisKey = "signals:last"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if len(c.Pairs) == 0 {
		return errors.New("at least one pair is required")
	}
	for _, p := range c.Pairs {
		if p == "" || strings.ToUpper(p) != p {
			return errors.Errorf("pair %q must be a non-empty upper-case symbol", p)
		}
	}
	switch c.Exchange.Source {
	case "binance", "mock":
	default:
		return errors.Errorf("unknown exchange.source %q", c.Exchange.Source)
	}
	if !binanceIntervals[c.Timeframes.Execution] {
		return errors.Errorf("unknown execution interval %q", c.Timeframes.Execution)
	}
	if !binanceIntervals[c.Timeframes.Confirmation] {
		return errors.Errorf("unknown confirmation interval %q", c.Timeframes.Confirmation)
	}
	if c.PollIntervalSeconds <= 0 {
		return errors.New("poll_interval_seconds must be positive")
	}

	periods := c.Periods()
	if err := periods.Validate(); err != nil {
		return errors.Wrap(err, "indicators")
	}
	if c.Timeframes.Window < periods.MinBars() {
		return errors.Errorf("timeframes.window %d is shorter than the %d bars the indicators need",
			c.Timeframes.Window, periods.MinBars())
	}
	if c.Timeframes.Window > 1000 {
		return errors.New("timeframes.window must be <= 1000")
	}
	switch c.Indicators.Backend {
	case "native", "talib":
	default:
		return errors.Errorf("unknown indicators.backend %q", c.Indicators.Backend)
	}

	if err := c.StrategyThresholds().Validate(); err != nil {
		return errors.Wrap(err, "thresholds")
	}

	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == 0) {
		return errors.New("telegram.bot_token and telegram.chat_id must be set together")
	}

	switch c.State.Backend {
	case "file", "sqlite", "memory":
	case "redis":
		if c.State.RedisAddr == "" {
			return errors.New("state.redis_addr is required for the redis backend")
		}
	default:
		return errors.Errorf("unknown state.backend %q", c.State.Backend)
	}
	return nil
}

// Periods returns the configured indicator lookbacks.
func (c *Config) Periods() calculator.Periods {
	return calculator.Periods{
		RSI:        c.Indicators.RSIPeriod,
		MACDFast:   c.Indicators.MACDFast,
		MACDSlow:   c.Indicators.MACDSlow,
		MACDSignal: c.Indicators.MACDSignal,
		VolumeMA:   c.Indicators.VolumeMAPeriod,
		EMA:        c.Indicators.EMAPeriod,
	}
}

// StrategyThresholds returns the configured evaluator thresholds.
func (c *Config) StrategyThresholds() strategy.Thresholds {
	th := strategy.DefaultThresholds()
	if v := c.Thresholds.RSIOversold; v != nil {
		th.RSIOversold = *v
	}
	if v := c.Thresholds.RSIOverbought; v != nil {
		th.RSIOverbought = *v
	}
	if v := c.Thresholds.RSINeutral; v != nil {
		th.RSINeutral = *v
	}
	if v := c.Thresholds.VolumeMultiplier; v != nil {
		th.VolumeMultiplier = *v
	}
	return th
}

// TelegramEnabled reports whether Telegram credentials are configured.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != 0
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.ToUpper(strings.TrimSpace(part)); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func setInt(dst *int, def int) {
	if *dst == 0 {
		*dst = def
	}
}

func setFloat(dst **float64, def float64) {
	if *dst == nil {
		*dst = &def
	}
}

func boolPtr(b bool) *bool { return &b }
