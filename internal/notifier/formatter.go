package notifier

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"SignalSentinel/internal/model"

	"github.com/shopspring/decimal"
)

const timeLayout = "2006-01-02 15:04 UTC"

// FormatShort returns the one-line summary of a signal.
func FormatShort(sig *model.Signal) string {
	switch sig.Kind {
	case model.SignalLong:
		return fmt.Sprintf("📈 LONG signal on %s", sig.Pair)
	case model.SignalShort:
		return fmt.Sprintf("📉 SHORT signal on %s", sig.Pair)
	case model.SignalNoData:
		return fmt.Sprintf("⚠️ %s: no data", sig.Pair)
	default:
		return fmt.Sprintf("⚪ %s: no signal", sig.Pair)
	}
}

// FormatLong renders the notification text of a signal. Actionable signals
// carry the indicator readings of both timeframes.
func FormatLong(sig *model.Signal, volumeMAPeriod, emaPeriod int) string {
	ts := sig.At.UTC().Format(timeLayout)
	if !sig.Kind.Actionable() || sig.Snapshot == nil {
		return fmt.Sprintf("%s — %s", FormatShort(sig), ts)
	}

	snap := sig.Snapshot
	e, c := snap.Execution, snap.Confirmation

	var b strings.Builder
	b.WriteString(fmt.Sprintf("⚡ %s\n", FormatShort(sig)))
	b.WriteString(fmt.Sprintf("⏱ %s\n", ts))
	b.WriteString(fmt.Sprintf("%s → Price: %.2f | RSI: %s | MACD: %s / Sig: %s | Hist: %s | Vol/MA%d: %s\n",
		strings.ToUpper(snap.ExecutionInterval), e.Close, round(e.RSI, 2),
		round(e.MACD, 5), round(e.MACDSignal, 5), round(e.MACDHist, 5),
		volumeMAPeriod, round(e.VolumeRatio(), 2)))
	b.WriteString(fmt.Sprintf("%s → Price: %.2f | EMA%d: %s | RSI: %s | MACD: %s / Sig: %s",
		strings.ToUpper(snap.ConfirmationInterval), c.Close, emaPeriod, round(c.EMA, 2),
		round(c.RSI, 2), round(c.MACD, 5), round(c.MACDSignal, 5)))
	return b.String()
}

// FormatConsoleLine renders the per-cycle log line of a pair.
func FormatConsoleLine(sig *model.Signal) string {
	if sig.Snapshot == nil {
		if sig.Reason != "" {
			return fmt.Sprintf("%s: %s (%s)", sig.Pair, sig.Kind, sig.Reason)
		}
		return fmt.Sprintf("%s: %s", sig.Pair, sig.Kind)
	}
	e, c := sig.Snapshot.Execution, sig.Snapshot.Confirmation
	return fmt.Sprintf("%s: %s | %s close=%.2f rsi=%s hist=%s vol=%sx | %s close=%.2f ema=%s rsi=%s",
		sig.Pair, sig.Kind,
		sig.Snapshot.ExecutionInterval, e.Close, round(e.RSI, 2), round(e.MACDHist, 5), round(e.VolumeRatio(), 2),
		sig.Snapshot.ConfirmationInterval, c.Close, round(c.EMA, 2), round(c.RSI, 2))
}

// FormatStatus lists the remembered signal of every configured pair, followed
// by any remembered pair that is no longer configured.
func FormatStatus(last map[string]model.SignalKind, pairs []string) string {
	var b strings.Builder
	b.WriteString("📋 Last signals\n")

	seen := make(map[string]bool, len(pairs))
	for _, p := range pairs {
		seen[p] = true
		kind, ok := last[p]
		if !ok {
			b.WriteString(fmt.Sprintf("%s: -\n", p))
			continue
		}
		b.WriteString(fmt.Sprintf("%s: %s\n", p, kind))
	}

	var extra []string
	for p := range last {
		if !seen[p] {
			extra = append(extra, p)
		}
	}
	sort.Strings(extra)
	for _, p := range extra {
		b.WriteString(fmt.Sprintf("%s: %s (not watched)\n", p, last[p]))
	}
	return strings.TrimRight(b.String(), "\n")
}

// round renders v with at most places decimals and no trailing zeros.
func round(v float64, places int32) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "n/a"
	}
	return decimal.NewFromFloat(v).Round(places).String()
}
