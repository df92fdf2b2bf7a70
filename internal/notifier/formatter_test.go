package notifier

import (
	"math"
	"testing"
	"time"

	"SignalSentinel/internal/model"

	"github.com/stretchr/testify/assert"
)

var testTime = time.Date(2024, 3, 1, 8, 5, 0, 0, time.UTC)

func longSignal() *model.Signal {
	return &model.Signal{
		Pair: "BTCUSDT",
		Kind: model.SignalLong,
		At:   testTime,
		Snapshot: &model.Snapshot{
			Pair:                 "BTCUSDT",
			ExecutionInterval:    "4h",
			ConfirmationInterval: "1d",
			EvaluatedAt:          testTime,
			Execution: model.IndicatorSet{
				Close: 100, Volume: 2000, VolumeMA: 1000,
				RSI: 25.5, MACD: 0.12345, MACDSignal: 0.1, MACDHist: 0.02345,
			},
			Confirmation: model.IndicatorSet{
				Close: 100, EMA: 99.5, RSI: 40, MACD: 0.1, MACDSignal: 0.1,
			},
		},
	}
}

func TestFormatShort(t *testing.T) {
	tests := []struct {
		kind model.SignalKind
		want string
	}{
		{model.SignalLong, "📈 LONG signal on ETHUSDT"},
		{model.SignalShort, "📉 SHORT signal on ETHUSDT"},
		{model.SignalNoData, "⚠️ ETHUSDT: no data"},
		{model.SignalNone, "⚪ ETHUSDT: no signal"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatShort(&model.Signal{Pair: "ETHUSDT", Kind: tt.kind}))
	}
}

func TestFormatLong_Actionable(t *testing.T) {
	want := "⚡ 📈 LONG signal on BTCUSDT\n" +
		"⏱ 2024-03-01 08:05 UTC\n" +
		"4H → Price: 100.00 | RSI: 25.5 | MACD: 0.12345 / Sig: 0.1 | Hist: 0.02345 | Vol/MA20: 2\n" +
		"1D → Price: 100.00 | EMA20: 99.5 | RSI: 40 | MACD: 0.1 / Sig: 0.1"
	assert.Equal(t, want, FormatLong(longSignal(), 20, 20))
}

func TestFormatLong_Periods(t *testing.T) {
	got := FormatLong(longSignal(), 30, 50)
	assert.Contains(t, got, "Vol/MA30: 2")
	assert.Contains(t, got, "EMA50: 99.5")
}

func TestFormatLong_NotActionable(t *testing.T) {
	sig := &model.Signal{Pair: "SOLUSDT", Kind: model.SignalNone, At: testTime}
	assert.Equal(t, "⚪ SOLUSDT: no signal — 2024-03-01 08:05 UTC", FormatLong(sig, 20, 20))

	sig.Kind = model.SignalNoData
	assert.Equal(t, "⚠️ SOLUSDT: no data — 2024-03-01 08:05 UTC", FormatLong(sig, 20, 20))
}

func TestFormatConsoleLine(t *testing.T) {
	line := FormatConsoleLine(longSignal())
	assert.Contains(t, line, "BTCUSDT: LONG")
	assert.Contains(t, line, "4h close=100.00 rsi=25.5")
	assert.Contains(t, line, "vol=2x")
	assert.Contains(t, line, "1d close=100.00 ema=99.5 rsi=40")

	noData := &model.Signal{Pair: "XRPUSDT", Kind: model.SignalNoData, Reason: "transport timeout"}
	assert.Equal(t, "XRPUSDT: NO_DATA (transport timeout)", FormatConsoleLine(noData))
}

func TestFormatStatus(t *testing.T) {
	last := map[string]model.SignalKind{
		"BTCUSDT":  model.SignalLong,
		"DOGEUSDT": model.SignalShort,
	}
	got := FormatStatus(last, []string{"BTCUSDT", "ETHUSDT"})
	assert.Equal(t, "📋 Last signals\nBTCUSDT: LONG\nETHUSDT: -\nDOGEUSDT: SHORT (not watched)", got)
}

func TestRound(t *testing.T) {
	assert.Equal(t, "1.23", round(1.234567, 2))
	assert.Equal(t, "0.12346", round(0.123456789, 5))
	assert.Equal(t, "2", round(2.0, 2))
	assert.Equal(t, "-0.5", round(-0.5, 5))
	assert.Equal(t, "n/a", round(math.NaN(), 2))
	assert.Equal(t, "n/a", round(math.Inf(1), 2))
}
