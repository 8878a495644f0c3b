package calculator

import (
	"github.com/guregu/null/v6"
)

// SMA returns the simple moving average of prices over period, aligned with
// prices. Entries before the first full window are undefined.
func SMA(prices []float64, period int) []null.Float {
	out := make([]null.Float, len(prices))
	if period <= 0 {
		return out
	}
	sum := 0.0
	for i, p := range prices {
		sum += p
		if i >= period {
			sum -= prices[i-period]
		}
		if i >= period-1 {
			out[i] = null.FloatFrom(sum / float64(period))
		}
	}
	return out
}

// EMA returns the exponential moving average of prices with smoothing factor
// 2/(period+1), seeded with the SMA of the first period prices.
func EMA(prices []float64, period int) []null.Float {
	out := make([]null.Float, len(prices))
	if period <= 0 || len(prices) < period {
		return out
	}
	multiplier := 2.0 / float64(period+1)

	sum := 0.0
	for i := 0; i < period; i++ {
		sum += prices[i]
	}
	current := sum / float64(period)
	out[period-1] = null.FloatFrom(current)

	for i := period; i < len(prices); i++ {
		current = prices[i]*multiplier + current*(1-multiplier)
		out[i] = null.FloatFrom(current)
	}
	return out
}
