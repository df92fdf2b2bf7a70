package model

import (
	"math"
	"time"
)

// Indicator names one derived series.
type Indicator string

const (
	IndicatorRSI        Indicator = "RSI"
	IndicatorMACD       Indicator = "MACD"
	IndicatorMACDSignal Indicator = "MACD_SIGNAL"
	IndicatorMACDHist   Indicator = "MACD_HIST"
	IndicatorVolumeMA   Indicator = "VOLUME_MA"
	IndicatorEMA        Indicator = "EMA"
)

// volumeRatioEpsilon keeps the volume ratio finite when the average is ~0.
const volumeRatioEpsilon = 1e-9

// IndicatorSeries holds per-bar indicator values aligned with the bar window.
// Undefined entries are NaN.
type IndicatorSeries struct {
	Interval   string
	Time       []time.Time
	Close      []float64
	Volume     []float64
	RSI        []float64
	MACD       []float64
	MACDSignal []float64
	MACDHist   []float64
	VolumeMA   []float64
	EMA        []float64
}

// Len returns the number of bars covered by the series.
func (s *IndicatorSeries) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Close)
}

func (s *IndicatorSeries) column(ind Indicator) []float64 {
	switch ind {
	case IndicatorRSI:
		return s.RSI
	case IndicatorMACD:
		return s.MACD
	case IndicatorMACDSignal:
		return s.MACDSignal
	case IndicatorMACDHist:
		return s.MACDHist
	case IndicatorVolumeMA:
		return s.VolumeMA
	case IndicatorEMA:
		return s.EMA
	}
	return nil
}

// Latest returns the indicator values of the most recent bar. It fails with a
// DataInsufficientError when the window is empty or any required indicator is
// still undefined at the last bar.
func (s *IndicatorSeries) Latest(required ...Indicator) (*IndicatorSet, error) {
	n := s.Len()
	interval := ""
	if s != nil {
		interval = s.Interval
	}
	if n == 0 {
		return nil, &DataInsufficientError{Interval: interval, Bars: 0}
	}
	for _, ind := range required {
		if math.IsNaN(valueAt(s.column(ind), n-1)) {
			return nil, &DataInsufficientError{Interval: interval, Indicator: ind, Bars: n}
		}
	}
	set := &IndicatorSet{
		Close:      s.Close[n-1],
		Volume:     valueAt(s.Volume, n-1),
		RSI:        valueAt(s.RSI, n-1),
		MACD:       valueAt(s.MACD, n-1),
		MACDSignal: valueAt(s.MACDSignal, n-1),
		MACDHist:   valueAt(s.MACDHist, n-1),
		VolumeMA:   valueAt(s.VolumeMA, n-1),
		EMA:        valueAt(s.EMA, n-1),
	}
	if len(s.Time) == n {
		set.Time = s.Time[n-1]
	}
	return set, nil
}

func valueAt(xs []float64, i int) float64 {
	if i < 0 || i >= len(xs) {
		return math.NaN()
	}
	return xs[i]
}

// IndicatorSet holds the indicator values of a single bar.
type IndicatorSet struct {
	Time       time.Time
	Close      float64
	Volume     float64
	RSI        float64
	MACD       float64
	MACDSignal float64
	MACDHist   float64
	VolumeMA   float64
	EMA        float64
}

// VolumeRatio returns volume over its moving average.
func (s *IndicatorSet) VolumeRatio() float64 {
	return s.Volume / math.Max(s.VolumeMA, volumeRatioEpsilon)
}
