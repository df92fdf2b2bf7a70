package collector

import (
	"context"
	"math"
	"time"

	"SignalSentinel/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Price float64
	Bars  map[string][]model.Bar // keyed by MockKey
	Errs  map[string]error       // keyed by MockKey
	Calls []string
}

// MockKey builds the lookup key of MockFetcher.Bars and MockFetcher.Errs.
func MockKey(symbol, interval string) string { return symbol + "/" + interval }

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchBars(_ context.Context, symbol, interval string, limit int) ([]model.Bar, error) {
	key := MockKey(symbol, interval)
	m.Calls = append(m.Calls, key)
	if err, ok := m.Errs[key]; ok {
		return nil, err
	}
	if bars, ok := m.Bars[key]; ok {
		if len(bars) > limit {
			bars = bars[len(bars)-limit:]
		}
		return bars, nil
	}
	if m.Price <= 0 {
		return nil, nil
	}
	return GenerateBars(m.Price, limit, time.Hour, time.Now().UTC()), nil
}

// GenerateBars builds count bars ending at end that oscillate around basePrice.
func GenerateBars(basePrice float64, count int, step time.Duration, end time.Time) []model.Bar {
	bars := make([]model.Bar, count)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + 0.02*math.Sin(float64(i)/5) + float64(i-count/2)*0.0005)
		bars[i] = model.Bar{
			Time:   end.Add(-time.Duration(count-i) * step),
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000000 * (1 + 0.3*math.Cos(float64(i)/3)),
		}
	}
	return bars
}
