package strategy

import (
	"testing"

	"SignalSentinel/internal/model"

	"github.com/stretchr/testify/assert"
)

func longExec() *model.IndicatorSet {
	return &model.IndicatorSet{Close: 100, Volume: 2000, VolumeMA: 1000, RSI: 25, MACD: 1.5, MACDSignal: 1.0}
}

func longConfirm() *model.IndicatorSet {
	return &model.IndicatorSet{Close: 110, EMA: 100, RSI: 40, MACD: 2.0, MACDSignal: 2.0}
}

func shortExec() *model.IndicatorSet {
	return &model.IndicatorSet{Close: 100, Volume: 2000, VolumeMA: 1000, RSI: 75, MACD: 1.0, MACDSignal: 1.5}
}

func shortConfirm() *model.IndicatorSet {
	return &model.IndicatorSet{Close: 90, EMA: 100, RSI: 60, MACD: 2.0, MACDSignal: 2.0}
}

func TestEvaluate_Long(t *testing.T) {
	e := NewEvaluator(DefaultThresholds())
	assert.Equal(t, model.SignalLong, e.Evaluate(longExec(), longConfirm()))
}

func TestEvaluate_Short(t *testing.T) {
	e := NewEvaluator(DefaultThresholds())
	assert.Equal(t, model.SignalShort, e.Evaluate(shortExec(), shortConfirm()))
}

func TestEvaluate_NeutralRSIIsNone(t *testing.T) {
	e := NewEvaluator(DefaultThresholds())

	exec := longExec()
	exec.RSI = 50
	assert.Equal(t, model.SignalNone, e.Evaluate(exec, longConfirm()))

	exec = shortExec()
	exec.RSI = 50
	assert.Equal(t, model.SignalNone, e.Evaluate(exec, shortConfirm()))
}

func TestEvaluate_MissingTimeframeIsNoData(t *testing.T) {
	e := NewEvaluator(DefaultThresholds())

	assert.Equal(t, model.SignalNoData, e.Evaluate(nil, longConfirm()))
	assert.Equal(t, model.SignalNoData, e.Evaluate(longExec(), nil))
	assert.Equal(t, model.SignalNoData, e.EvaluateSnapshot(nil))
}

func TestEvaluate_MACDComparisonAsymmetry(t *testing.T) {
	e := NewEvaluator(DefaultThresholds())

	// Execution MACD must strictly exceed its signal.
	exec := longExec()
	exec.MACD = exec.MACDSignal
	assert.Equal(t, model.SignalNone, e.Evaluate(exec, longConfirm()))

	exec = shortExec()
	exec.MACD = exec.MACDSignal
	assert.Equal(t, model.SignalNone, e.Evaluate(exec, shortConfirm()))

	// Confirmation MACD equal to its signal is accepted both ways.
	assert.Equal(t, model.SignalLong, e.Evaluate(longExec(), longConfirm()))
	assert.Equal(t, model.SignalShort, e.Evaluate(shortExec(), shortConfirm()))
}

func TestEvaluate_VolumeFilter(t *testing.T) {
	e := NewEvaluator(DefaultThresholds())

	exec := longExec()
	exec.Volume = 1200 // equal to 1.2 x average is not enough
	assert.Equal(t, model.SignalNone, e.Evaluate(exec, longConfirm()))
}

func TestEvaluate_ConfirmationVeto(t *testing.T) {
	e := NewEvaluator(DefaultThresholds())

	confirm := longConfirm()
	confirm.Close = 95
	assert.Equal(t, model.SignalNone, e.Evaluate(longExec(), confirm))

	confirm = longConfirm()
	confirm.RSI = 50
	assert.Equal(t, model.SignalNone, e.Evaluate(longExec(), confirm))
}

func TestEvaluate_CustomThresholds(t *testing.T) {
	e := NewEvaluator(Thresholds{RSIOversold: 20, RSIOverbought: 80, RSINeutral: 50, VolumeMultiplier: 1.2})
	assert.Equal(t, model.SignalNone, e.Evaluate(longExec(), longConfirm()))

	e = NewEvaluator(Thresholds{RSIOversold: 30, RSIOverbought: 70, RSINeutral: 50, VolumeMultiplier: 3})
	assert.Equal(t, model.SignalNone, e.Evaluate(longExec(), longConfirm()))
}

func TestEvaluate_LongAndShortExclusive(t *testing.T) {
	e := NewEvaluator(DefaultThresholds())
	values := []float64{0, 25, 30, 50, 70, 75, 100}
	macds := []float64{-1, 0, 1}

	for _, rsi := range values {
		for _, confirmRSI := range values {
			for _, m := range macds {
				for _, cm := range macds {
					for _, price := range []float64{90, 100, 110} {
						exec := &model.IndicatorSet{RSI: rsi, MACD: m, Volume: 2000, VolumeMA: 1000}
						confirm := &model.IndicatorSet{RSI: confirmRSI, MACD: cm, Close: price, EMA: 100}
						c := e.Conditions(exec, confirm)
						bothLong := c.LongExecution && c.LongConfirmation
						bothShort := c.ShortExecution && c.ShortConfirmation
						assert.False(t, bothLong && bothShort, "rsi=%v confirmRSI=%v macd=%v confirmMACD=%v close=%v", rsi, confirmRSI, m, cm, price)
					}
				}
			}
		}
	}
}

func TestEvaluate_Deterministic(t *testing.T) {
	e := NewEvaluator(DefaultThresholds())
	exec, confirm := longExec(), longConfirm()

	first := e.Evaluate(exec, confirm)
	second := e.Evaluate(exec, confirm)
	assert.Equal(t, first, second)
}

func TestThresholds_Validate(t *testing.T) {
	assert.NoError(t, DefaultThresholds().Validate())
	assert.Error(t, Thresholds{RSIOversold: 70, RSIOverbought: 30, RSINeutral: 50, VolumeMultiplier: 1}.Validate())
	assert.Error(t, Thresholds{RSIOversold: 30, RSIOverbought: 70, RSINeutral: 50, VolumeMultiplier: 0}.Validate())
	assert.Error(t, Thresholds{RSIOversold: -1, RSIOverbought: 70, RSINeutral: 50, VolumeMultiplier: 1}.Validate())
}
