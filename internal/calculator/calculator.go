package calculator

import (
	"fmt"

	"SignalSentinel/internal/model"
)

// Periods configures indicator lookbacks.
type Periods struct {
	RSI        int
	MACDFast   int
	MACDSlow   int
	MACDSignal int
	VolumeMA   int
	EMA        int
}

// DefaultPeriods returns RSI(14), MACD(12,26,9), volume SMA(20) and EMA(20).
func DefaultPeriods() Periods {
	return Periods{RSI: 14, MACDFast: 12, MACDSlow: 26, MACDSignal: 9, VolumeMA: 20, EMA: 20}
}

// MinBars returns the shortest window in which every indicator has a value
// at the last bar.
func (p Periods) MinBars() int {
	need := p.RSI + 1
	if m := p.MACDSlow + p.MACDSignal - 1; m > need {
		need = m
	}
	if p.VolumeMA > need {
		need = p.VolumeMA
	}
	if p.EMA > need {
		need = p.EMA
	}
	return need
}

// Validate checks that all periods are usable.
func (p Periods) Validate() error {
	for name, v := range map[string]int{
		"rsi_period":       p.RSI,
		"macd_fast":        p.MACDFast,
		"macd_slow":        p.MACDSlow,
		"macd_signal":      p.MACDSignal,
		"volume_ma_period": p.VolumeMA,
		"ema_period":       p.EMA,
	} {
		if v <= 0 {
			return fmt.Errorf("%s must be positive", name)
		}
	}
	if p.MACDFast >= p.MACDSlow {
		return fmt.Errorf("macd_fast must be < macd_slow")
	}
	return nil
}

// Calculator computes indicator series over a bar window.
type Calculator interface {
	Name() string
	Compute(interval string, bars []model.Bar) *model.IndicatorSeries
}

// New returns the calculator registered under backend ("native" or "talib").
func New(backend string, p Periods) (Calculator, error) {
	switch backend {
	case "", "native":
		return NewNative(p), nil
	case "talib":
		return NewTALib(p), nil
	default:
		return nil, fmt.Errorf("unknown indicator backend %q", backend)
	}
}

// Native implements Calculator with the functions in this package.
type Native struct {
	periods Periods
}

func NewNative(p Periods) *Native { return &Native{periods: p} }

func (n *Native) Name() string { return "native" }

func (n *Native) Compute(interval string, bars []model.Bar) *model.IndicatorSeries {
	closes := model.Closes(bars)
	volumes := model.Volumes(bars)
	line, sig, hist := MACD(closes, n.periods.MACDFast, n.periods.MACDSlow, n.periods.MACDSignal)
	return &model.IndicatorSeries{
		Interval:   interval,
		Time:       times(bars),
		Close:      closes,
		Volume:     volumes,
		RSI:        RSI(closes, n.periods.RSI),
		MACD:       line,
		MACDSignal: sig,
		MACDHist:   hist,
		VolumeMA:   SMA(volumes, n.periods.VolumeMA),
		EMA:        EMA(closes, n.periods.EMA),
	}
}
