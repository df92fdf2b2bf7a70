package collector

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"SignalSentinel/internal/model"

	"github.com/bytedance/sonic"
	"github.com/pkg/errors"
)

const DefaultBinanceURL = "https://api.binance.com"

// BinanceFetcher implements Fetcher using the public Binance klines endpoint.
// No API key is needed.
type BinanceFetcher struct {
	BaseURL string
	Client  *http.Client
}

// NewBinanceFetcher creates a new fetcher with optional proxy support.
func NewBinanceFetcher(baseURL, proxyURL string, timeout time.Duration) *BinanceFetcher {
	if baseURL == "" {
		baseURL = DefaultBinanceURL
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &BinanceFetcher{
		BaseURL: baseURL,
		Client: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
	}
}

func (f *BinanceFetcher) Name() string { return "binance" }

func (f *BinanceFetcher) FetchBars(ctx context.Context, symbol, interval string, limit int) ([]model.Bar, error) {
	q := url.Values{}
	q.Set("symbol", symbol)
	q.Set("interval", interval)
	q.Set("limit", strconv.Itoa(limit))
	endpoint := fmt.Sprintf("%s/api/v3/klines?%s", f.BaseURL, q.Encode())

	fail := func(err error) error {
		return &model.TransportError{Symbol: symbol, Interval: interval, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fail(err)
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fail(errors.Wrap(err, "fetch klines"))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fail(errors.Wrap(err, "read body"))
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fail(errors.Errorf("status %d, body: %s", resp.StatusCode, string(body)))
	}

	var rows [][]interface{}
	if err := sonic.Unmarshal(body, &rows); err != nil {
		return nil, fail(errors.Wrap(err, "decode klines"))
	}

	bars := make([]model.Bar, 0, len(rows))
	for i, row := range rows {
		bar, err := parseKline(row)
		if err != nil {
			return nil, fail(errors.Wrapf(err, "kline %d", i))
		}
		bars = append(bars, bar)
	}
	sort.Slice(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	return bars, nil
}

// parseKline reads [openTime, open, high, low, close, volume, ...]. Binance
// sends prices and volume as strings.
func parseKline(row []interface{}) (model.Bar, error) {
	if len(row) < 6 {
		return model.Bar{}, errors.Errorf("expected at least 6 fields, got %d", len(row))
	}
	openTime, ok := row[0].(float64)
	if !ok {
		return model.Bar{}, errors.Errorf("open time: unexpected type %T", row[0])
	}
	var vals [5]float64
	for i := range vals {
		v, err := toFloat(row[i+1])
		if err != nil {
			return model.Bar{}, err
		}
		vals[i] = v
	}
	return model.Bar{
		Time:   time.UnixMilli(int64(openTime)).UTC(),
		Open:   vals[0],
		High:   vals[1],
		Low:    vals[2],
		Close:  vals[3],
		Volume: vals[4],
	}, nil
}

func toFloat(v interface{}) (float64, error) {
	switch n := v.(type) {
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0, errors.Wrapf(err, "parse %q", n)
		}
		return f, nil
	case float64:
		return n, nil
	default:
		return 0, errors.Errorf("unexpected type %T", v)
	}
}
