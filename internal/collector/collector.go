package collector

import (
	"context"
	"time"

	"SignalSentinel/internal/calculator"
	"SignalSentinel/internal/model"
	"SignalSentinel/pkg/logger"

	"github.com/pkg/errors"
)

var (
	executionIndicators    = []model.Indicator{model.IndicatorRSI, model.IndicatorMACD, model.IndicatorMACDSignal, model.IndicatorVolumeMA}
	confirmationIndicators = []model.Indicator{model.IndicatorRSI, model.IndicatorMACD, model.IndicatorMACDSignal, model.IndicatorEMA}
)

// Timeframes names the two bar intervals and the window fetched for each.
type Timeframes struct {
	Execution    string
	Confirmation string
	Window       int
}

// Collector orchestrates data fetching and indicator computation.
type Collector struct {
	Fetcher Fetcher
	Calc    calculator.Calculator
	Frames  Timeframes
	Now     func() time.Time
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, calc calculator.Calculator, frames Timeframes) *Collector {
	return &Collector{
		Fetcher: fetcher,
		Calc:    calc,
		Frames:  frames,
		Now:     func() time.Time { return time.Now().UTC() },
	}
}

// Collect fetches both timeframes of pair and returns the latest indicator
// values of each. Failures are *model.TransportError or
// *model.DataInsufficientError (possibly wrapped).
func (c *Collector) Collect(ctx context.Context, pair string) (*model.Snapshot, error) {
	exec, err := c.latest(ctx, pair, c.Frames.Execution, executionIndicators)
	if err != nil {
		return nil, errors.Wrap(err, "execution timeframe")
	}
	confirm, err := c.latest(ctx, pair, c.Frames.Confirmation, confirmationIndicators)
	if err != nil {
		return nil, errors.Wrap(err, "confirmation timeframe")
	}
	return &model.Snapshot{
		Pair:                 pair,
		ExecutionInterval:    c.Frames.Execution,
		ConfirmationInterval: c.Frames.Confirmation,
		EvaluatedAt:          c.Now(),
		Execution:            *exec,
		Confirmation:         *confirm,
	}, nil
}

func (c *Collector) latest(ctx context.Context, pair, interval string, required []model.Indicator) (*model.IndicatorSet, error) {
	bars, err := c.Fetcher.FetchBars(ctx, pair, interval, c.Frames.Window)
	if err != nil {
		return nil, err
	}
	if len(bars) == 0 {
		return nil, &model.DataInsufficientError{Interval: interval}
	}
	if len(bars) < c.Frames.Window {
		logger.Debug("%s %s: got %d of %d bars", pair, interval, len(bars), c.Frames.Window)
	}
	return c.Calc.Compute(interval, bars).Latest(required...)
}
