package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"stockchart/internal/model"

	"github.com/rs/zerolog/log"
)

// RESTFetcher implements Fetcher against a generic daily-bars REST API.
type RESTFetcher struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// NewRESTFetcher creates a new fetcher with optional proxy support.
func NewRESTFetcher(baseURL, apiKey, proxyURL string, timeout time.Duration) *RESTFetcher {
	return &RESTFetcher{
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
		Client:  newHTTPClient(proxyURL, timeout),
	}
}

func (f *RESTFetcher) Name() string { return "rest" }

// restBar is the expected JSON shape from the bars API.
type restBar struct {
	Timestamp int64    `json:"timestamp"`
	Open      *float64 `json:"open"`
	High      *float64 `json:"high"`
	Low       *float64 `json:"low"`
	Close     *float64 `json:"close"`
	Volume    int64    `json:"volume"`
}

func (f *RESTFetcher) FetchDaily(ctx context.Context, symbol string, start, end time.Time) (model.PriceSeries, error) {
	symbol, err := ValidateRequest(symbol, start, end)
	if err != nil {
		return model.PriceSeries{}, err
	}
	series := model.PriceSeries{Symbol: symbol, Bars: []model.PriceBar{}}

	q := url.Values{}
	q.Set("symbol", symbol)
	q.Set("from", model.Date(start).Format(model.DateLayout))
	q.Set("to", model.Date(end).Format(model.DateLayout))
	endpoint := fmt.Sprintf("%s/api/v1/bars/daily?%s", f.BaseURL, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return series, f.unavailable(symbol, err)
	}
	if f.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+f.APIKey)
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return series, f.unavailable(symbol, fmt.Errorf("fetch bars: %w", err))
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return series, f.unavailable(symbol, fmt.Errorf("unknown symbol"))
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return series, f.unavailable(symbol, fmt.Errorf("fetch bars: status %d, body: %s", resp.StatusCode, truncate(string(body), 200)))
	}

	var raw []restBar
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return series, f.unavailable(symbol, fmt.Errorf("decode bars: %w", err))
	}

	bars := make([]model.PriceBar, 0, len(raw))
	for _, rb := range raw {
		if rb.Open == nil || rb.High == nil || rb.Low == nil || rb.Close == nil {
			continue
		}
		bars = append(bars, model.PriceBar{
			Date:   model.Date(time.Unix(rb.Timestamp, 0).UTC()),
			Open:   *rb.Open,
			High:   *rb.High,
			Low:    *rb.Low,
			Close:  *rb.Close,
			Volume: rb.Volume,
		})
	}
	series.Bars = inRange(normalizeBars(bars), start, end)

	log.Debug().
		Str("provider", f.Name()).
		Str("symbol", symbol).
		Int("bars", len(series.Bars)).
		Msg("bars fetched")
	return series, nil
}

func (f *RESTFetcher) unavailable(symbol string, err error) error {
	return &DataUnavailableError{Provider: f.Name(), Symbol: symbol, Err: err}
}
