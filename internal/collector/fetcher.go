package collector

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"stockchart/internal/model"
)

// Fetcher defines the interface for fetching daily market data.
//
// FetchDaily returns the bars of symbol with dates in [start, end). An empty
// series is a valid result when the provider has no data for the range.
type Fetcher interface {
	FetchDaily(ctx context.Context, symbol string, start, end time.Time) (model.PriceSeries, error)
	Name() string
}

// ErrInvalidRequest is returned before any network call when the query itself is invalid.
var ErrInvalidRequest = errors.New("invalid request")

// DataUnavailableError reports that the provider could not deliver data.
type DataUnavailableError struct {
	Provider string
	Symbol   string
	Err      error
}

func (e *DataUnavailableError) Error() string {
	return fmt.Sprintf("%s: data unavailable for %s: %v", e.Provider, e.Symbol, e.Err)
}

func (e *DataUnavailableError) Unwrap() error { return e.Err }

// ValidateRequest normalizes symbol and checks the date range.
func ValidateRequest(symbol string, start, end time.Time) (string, error) {
	symbol = strings.TrimSpace(symbol)
	if symbol == "" {
		return "", fmt.Errorf("%w: ticker is required", ErrInvalidRequest)
	}
	if start.IsZero() || end.IsZero() {
		return "", fmt.Errorf("%w: start and end dates are required", ErrInvalidRequest)
	}
	if model.Date(start).After(model.Date(end)) {
		return "", fmt.Errorf("%w: start %s is after end %s", ErrInvalidRequest,
			start.Format(model.DateLayout), end.Format(model.DateLayout))
	}
	return strings.ToUpper(symbol), nil
}

func newHTTPClient(proxyURL string, timeout time.Duration) *http.Client {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}

// normalizeBars sorts bars by date and keeps the last bar of any repeated date.
func normalizeBars(bars []model.PriceBar) []model.PriceBar {
	sort.SliceStable(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })
	out := bars[:0]
	for _, b := range bars {
		if n := len(out); n > 0 && out[n-1].Date.Equal(b.Date) {
			out[n-1] = b
			continue
		}
		out = append(out, b)
	}
	return out
}

// inRange keeps bars with start <= date < end.
func inRange(bars []model.PriceBar, start, end time.Time) []model.PriceBar {
	start, end = model.Date(start), model.Date(end)
	out := make([]model.PriceBar, 0, len(bars))
	for _, b := range bars {
		if b.Date.Before(start) || !b.Date.Before(end) {
			continue
		}
		out = append(out, b)
	}
	return out
}
