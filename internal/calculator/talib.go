package calculator

import (
	"time"

	"SignalSentinel/internal/model"

	"github.com/markcheno/go-talib"
)

// TALib implements Calculator on top of go-talib. Values inside each
// indicator's lookback are reported as NaN, and windows shorter than the
// lookback never reach talib. talib zero-fills the MACD line until the
// signal line is defined, so the line shares the signal lookback here.
// talib seeds the MACD averages differently from EMA, so MACD values only
// converge with Native on long windows.
type TALib struct {
	periods Periods
}

func NewTALib(p Periods) *TALib { return &TALib{periods: p} }

func (t *TALib) Name() string { return "talib" }

func (t *TALib) Compute(interval string, bars []model.Bar) *model.IndicatorSeries {
	p := t.periods
	closes := model.Closes(bars)
	volumes := model.Volumes(bars)
	n := len(closes)

	s := &model.IndicatorSeries{
		Interval:   interval,
		Time:       times(bars),
		Close:      closes,
		Volume:     volumes,
		RSI:        undefined(n),
		MACD:       undefined(n),
		MACDSignal: undefined(n),
		MACDHist:   undefined(n),
		VolumeMA:   undefined(n),
		EMA:        undefined(n),
	}

	if lb := p.RSI; n > lb {
		s.RSI = masked(talib.Rsi(closes, p.RSI), lb)
		// talib reads 0 while no price has moved yet; Native reads 50.
		for i := lb; i < firstChange(closes); i++ {
			s.RSI[i] = 50
		}
	}
	if lb := p.VolumeMA - 1; n > lb {
		s.VolumeMA = masked(talib.Sma(volumes, p.VolumeMA), lb)
	}
	if lb := p.EMA - 1; n > lb {
		s.EMA = masked(talib.Ema(closes, p.EMA), lb)
	}
	if lb := p.MACDSlow + p.MACDSignal - 2; n > lb {
		line, sig, hist := talib.Macd(closes, p.MACDFast, p.MACDSlow, p.MACDSignal)
		s.MACD = masked(line, lb)
		s.MACDSignal = masked(sig, lb)
		s.MACDHist = masked(hist, lb)
	}
	return s
}

// masked copies out and marks the first lookback entries undefined.
func masked(out []float64, lookback int) []float64 {
	res := undefined(len(out))
	for i := lookback; i < len(out); i++ {
		res[i] = out[i]
	}
	return res
}

// firstChange returns the first index whose close differs from the previous
// one, or len(closes) when the whole window is flat.
func firstChange(closes []float64) int {
	for i := 1; i < len(closes); i++ {
		if closes[i] != closes[i-1] {
			return i
		}
	}
	return len(closes)
}

func times(bars []model.Bar) []time.Time {
	out := make([]time.Time, len(bars))
	for i, b := range bars {
		out[i] = b.Time
	}
	return out
}
