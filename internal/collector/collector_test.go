package collector

import (
	"context"
	"testing"
	"time"

	"SignalSentinel/internal/calculator"
	"SignalSentinel/internal/model"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testFrames = Timeframes{Execution: "4h", Confirmation: "1d", Window: 300}

func newTestCollector(m *MockFetcher) *Collector {
	c := NewCollector(m, calculator.NewNative(calculator.DefaultPeriods()), testFrames)
	c.Now = func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) }
	return c
}

func TestCollect_Snapshot(t *testing.T) {
	end := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	m := &MockFetcher{Bars: map[string][]model.Bar{
		MockKey("BTCUSDT", "4h"): GenerateBars(60000, 300, 4*time.Hour, end),
		MockKey("BTCUSDT", "1d"): GenerateBars(58000, 300, 24*time.Hour, end),
	}}

	snap, err := newTestCollector(m).Collect(context.Background(), "BTCUSDT")
	require.NoError(t, err)
	assert.Equal(t, "BTCUSDT", snap.Pair)
	assert.Equal(t, "4h", snap.ExecutionInterval)
	assert.Equal(t, "1d", snap.ConfirmationInterval)
	assert.Equal(t, time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC), snap.EvaluatedAt)

	assert.Equal(t, m.Bars[MockKey("BTCUSDT", "4h")][299].Close, snap.Execution.Close)
	assert.Equal(t, m.Bars[MockKey("BTCUSDT", "1d")][299].Close, snap.Confirmation.Close)
	assert.Greater(t, snap.Execution.VolumeMA, 0.0)
	assert.Greater(t, snap.Confirmation.EMA, 0.0)
	assert.Equal(t, []string{"BTCUSDT/4h", "BTCUSDT/1d"}, m.Calls)
}

func TestCollect_EmptyTimeframe(t *testing.T) {
	end := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	m := &MockFetcher{Bars: map[string][]model.Bar{
		MockKey("ETHUSDT", "4h"): GenerateBars(3000, 300, 4*time.Hour, end),
		MockKey("ETHUSDT", "1d"): {},
	}}

	_, err := newTestCollector(m).Collect(context.Background(), "ETHUSDT")
	var de *model.DataInsufficientError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, "1d", de.Interval)
	assert.Equal(t, 0, de.Bars)
}

func TestCollect_ShortWindow(t *testing.T) {
	end := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	m := &MockFetcher{Bars: map[string][]model.Bar{
		MockKey("SOLUSDT", "4h"): GenerateBars(100, 20, 4*time.Hour, end),
	}}

	_, err := newTestCollector(m).Collect(context.Background(), "SOLUSDT")
	var de *model.DataInsufficientError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, "4h", de.Interval)
	assert.Equal(t, 20, de.Bars)
	assert.NotEmpty(t, de.Indicator)
	// The confirmation timeframe is not fetched once execution fails.
	assert.Equal(t, []string{"SOLUSDT/4h"}, m.Calls)
}

func TestCollect_TransportError(t *testing.T) {
	m := &MockFetcher{Errs: map[string]error{
		MockKey("BTCUSDT", "4h"): &model.TransportError{Symbol: "BTCUSDT", Interval: "4h", Err: errors.New("timeout")},
	}}

	_, err := newTestCollector(m).Collect(context.Background(), "BTCUSDT")
	var te *model.TransportError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, "4h", te.Interval)
	assert.Contains(t, err.Error(), "timeout")
}

func TestMockFetcher_Generated(t *testing.T) {
	m := &MockFetcher{Price: 100}
	bars, err := m.FetchBars(context.Background(), "BTCUSDT", "4h", 50)
	require.NoError(t, err)
	assert.Len(t, bars, 50)
	for i := 1; i < len(bars); i++ {
		assert.True(t, bars[i].Time.After(bars[i-1].Time))
	}
}
