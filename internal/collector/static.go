package collector

import (
	"context"
	"hash/fnv"
	"math"
	"sync/atomic"
	"time"

	"stockchart/internal/model"
)

// StaticFetcher returns deterministic data for development and testing.
// When Bars is set those bars are served (filtered to the range); otherwise a
// synthetic weekday series is generated from the symbol and dates alone.
type StaticFetcher struct {
	Bars []model.PriceBar
	Err  error

	calls atomic.Int64
}

func (m *StaticFetcher) Name() string { return "mock" }

// Calls counts FetchDaily invocations that passed validation.
func (m *StaticFetcher) Calls() int64 { return m.calls.Load() }

func (m *StaticFetcher) FetchDaily(_ context.Context, symbol string, start, end time.Time) (model.PriceSeries, error) {
	symbol, err := ValidateRequest(symbol, start, end)
	if err != nil {
		return model.PriceSeries{}, err
	}
	m.calls.Add(1)
	if m.Err != nil {
		return model.PriceSeries{}, &DataUnavailableError{Provider: m.Name(), Symbol: symbol, Err: m.Err}
	}

	var bars []model.PriceBar
	if m.Bars != nil {
		bars = make([]model.PriceBar, len(m.Bars))
		copy(bars, m.Bars)
		bars = inRange(normalizeBars(bars), start, end)
	} else {
		bars = generateBars(symbol, start, end)
	}
	return model.PriceSeries{Symbol: symbol, Bars: bars}, nil
}

// generateBars produces one bar per weekday in [start, end) following a smooth
// wave whose base price depends on the symbol.
func generateBars(symbol string, start, end time.Time) []model.PriceBar {
	h := fnv.New32a()
	h.Write([]byte(symbol))
	base := 50 + float64(h.Sum32()%200)

	bars := []model.PriceBar{}
	epoch := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	for d := model.Date(start); d.Before(model.Date(end)); d = d.AddDate(0, 0, 1) {
		if wd := d.Weekday(); wd == time.Saturday || wd == time.Sunday {
			continue
		}
		x := d.Sub(epoch).Hours() / 24
		p := base * (1 + 0.15*math.Sin(x/40) + 0.03*math.Sin(x/3))
		open := p * (1 + 0.01*math.Sin(x))
		bars = append(bars, model.PriceBar{
			Date:   d,
			Open:   open,
			High:   math.Max(open, p) * 1.01,
			Low:    math.Min(open, p) * 0.99,
			Close:  p,
			Volume: int64(1_000_000 * (1.5 + math.Sin(x/7))),
		})
	}
	return bars
}
