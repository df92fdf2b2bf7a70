package strategy

import (
	"fmt"

	"SignalSentinel/internal/model"
)

// Thresholds holds the rule constants of the evaluator.
type Thresholds struct {
	RSIOversold      float64
	RSIOverbought    float64
	RSINeutral       float64
	VolumeMultiplier float64
}

// DefaultThresholds returns oversold 30, overbought 70, neutral 50 and a 1.2x volume filter.
func DefaultThresholds() Thresholds {
	return Thresholds{RSIOversold: 30, RSIOverbought: 70, RSINeutral: 50, VolumeMultiplier: 1.2}
}

// Validate checks 0 <= oversold < neutral < overbought <= 100 and a positive multiplier.
func (t Thresholds) Validate() error {
	if t.RSIOversold < 0 || t.RSIOverbought > 100 {
		return fmt.Errorf("rsi thresholds must lie in [0,100]")
	}
	if !(t.RSIOversold < t.RSINeutral && t.RSINeutral < t.RSIOverbought) {
		return fmt.Errorf("rsi thresholds must satisfy oversold < neutral < overbought")
	}
	if t.VolumeMultiplier <= 0 {
		return fmt.Errorf("volume_multiplier must be positive")
	}
	return nil
}

// Conditions holds the outcome of each rule conjunction.
type Conditions struct {
	LongExecution     bool
	LongConfirmation  bool
	ShortExecution    bool
	ShortConfirmation bool
}

// Evaluator turns execution and confirmation indicator values into a signal.
type Evaluator struct {
	th Thresholds
}

// NewEvaluator creates an Evaluator with fixed thresholds.
func NewEvaluator(th Thresholds) *Evaluator {
	return &Evaluator{th: th}
}

// Thresholds returns the evaluator's rule constants.
func (e *Evaluator) Thresholds() Thresholds { return e.th }

// Conditions evaluates the four rule conjunctions. Execution MACD comparisons
// are strict; confirmation MACD comparisons are not.
func (e *Evaluator) Conditions(exec, confirm *model.IndicatorSet) Conditions {
	volumeUp := exec.Volume > e.th.VolumeMultiplier*exec.VolumeMA
	return Conditions{
		LongExecution:     exec.RSI < e.th.RSIOversold && exec.MACD > exec.MACDSignal && volumeUp,
		LongConfirmation:  confirm.Close > confirm.EMA && confirm.MACD >= confirm.MACDSignal && confirm.RSI < e.th.RSINeutral,
		ShortExecution:    exec.RSI > e.th.RSIOverbought && exec.MACD < exec.MACDSignal && volumeUp,
		ShortConfirmation: confirm.Close < confirm.EMA && confirm.MACD <= confirm.MACDSignal && confirm.RSI > e.th.RSINeutral,
	}
}

// Evaluate returns LONG, SHORT or NONE, or NO_DATA when either timeframe is missing.
func (e *Evaluator) Evaluate(exec, confirm *model.IndicatorSet) model.SignalKind {
	if exec == nil || confirm == nil {
		return model.SignalNoData
	}
	c := e.Conditions(exec, confirm)
	switch {
	case c.LongExecution && c.LongConfirmation:
		return model.SignalLong
	case c.ShortExecution && c.ShortConfirmation:
		return model.SignalShort
	default:
		return model.SignalNone
	}
}

// EvaluateSnapshot evaluates a snapshot; a nil snapshot yields NO_DATA.
func (e *Evaluator) EvaluateSnapshot(snap *model.Snapshot) model.SignalKind {
	if snap == nil {
		return model.SignalNoData
	}
	return e.Evaluate(&snap.Execution, &snap.Confirmation)
}
