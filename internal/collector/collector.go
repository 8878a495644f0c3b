package collector

import (
	"context"
	"fmt"
	"time"

	"stockchart/internal/calculator"
	"stockchart/internal/model"

	"github.com/rs/zerolog/log"
)

// Collector orchestrates data fetching and indicator computation.
type Collector struct {
	Fetcher Fetcher
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher) *Collector {
	return &Collector{Fetcher: fetcher}
}

// Collect fetches the daily bars of symbol for [start, end) and attaches all
// indicators. It stops at the first failing stage.
func (c *Collector) Collect(ctx context.Context, symbol string, start, end time.Time) (*model.AugmentedSeries, error) {
	series, err := c.Fetcher.FetchDaily(ctx, symbol, start, end)
	if err != nil {
		return nil, fmt.Errorf("fetch daily bars: %w", err)
	}
	if series.Len() == 0 {
		log.Info().
			Str("provider", c.Fetcher.Name()).
			Str("symbol", series.Symbol).
			Str("start", start.Format(model.DateLayout)).
			Str("end", end.Format(model.DateLayout)).
			Msg("provider returned no bars")
	}

	aug, err := calculator.Augment(series)
	if err != nil {
		return nil, fmt.Errorf("compute indicators: %w", err)
	}
	return aug, nil
}
