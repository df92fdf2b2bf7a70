package collector

import (
	"context"

	"SignalSentinel/internal/model"
)

// Fetcher defines the interface for fetching market data.
//
// FetchBars returns at most limit bars ordered by time. A transport failure
// is reported as *model.TransportError; an empty result is an empty slice
// with a nil error.
type Fetcher interface {
	FetchBars(ctx context.Context, symbol, interval string, limit int) ([]model.Bar, error)
	Name() string
}
