package calculator

import "math"

// SMA returns the simple moving average of values over period. Entries before
// the first full window are NaN.
func SMA(values []float64, period int) []float64 {
	out := undefined(len(values))
	if period <= 0 || len(values) < period {
		return out
	}
	sum := 0.0
	for i, v := range values {
		sum += v
		if i >= period {
			sum -= values[i-period]
		}
		if i >= period-1 {
			out[i] = sum / float64(period)
		}
	}
	return out
}

// EMA returns the exponential moving average of values over period. A leading
// run of NaN is skipped; the average is seeded with the SMA of the first
// period defined values and then follows k = 2/(period+1).
func EMA(values []float64, period int) []float64 {
	out := undefined(len(values))
	if period <= 0 {
		return out
	}
	start := firstDefined(values)
	if start < 0 || len(values)-start < period {
		return out
	}

	seedEnd := start + period - 1
	sum := 0.0
	for i := start; i <= seedEnd; i++ {
		sum += values[i]
	}
	prev := sum / float64(period)
	out[seedEnd] = prev

	k := 2.0 / float64(period+1)
	for i := seedEnd + 1; i < len(values); i++ {
		prev += k * (values[i] - prev)
		out[i] = prev
	}
	return out
}

func undefined(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}

func firstDefined(values []float64) int {
	for i, v := range values {
		if !math.IsNaN(v) {
			return i
		}
	}
	return -1
}
