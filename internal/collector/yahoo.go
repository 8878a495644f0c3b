package collector

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"stockchart/internal/model"

	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"
)

// DefaultYahooBaseURL is the public Yahoo Finance query host.
const DefaultYahooBaseURL = "https://query1.finance.yahoo.com"

// YahooFetcher implements Fetcher using Yahoo Finance public API.
type YahooFetcher struct {
	BaseURL   string
	Client    *http.Client
	SymbolMap map[string]string // maps internal symbol to Yahoo ticker
}

// NewYahooFetcher creates a new Yahoo Finance fetcher.
func NewYahooFetcher(baseURL, proxyURL string, timeout time.Duration) *YahooFetcher {
	if baseURL == "" {
		baseURL = DefaultYahooBaseURL
	}
	return &YahooFetcher{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  newHTTPClient(proxyURL, timeout),
		SymbolMap: map[string]string{
			"SPX500": "^GSPC",
			"SPX":    "^GSPC",
			"SP500":  "^GSPC",
		},
	}
}

func (f *YahooFetcher) Name() string { return "yahoo" }

func (f *YahooFetcher) yahooSymbol(symbol string) string {
	if mapped, ok := f.SymbolMap[symbol]; ok {
		return mapped
	}
	return symbol
}

// FetchDaily downloads daily bars for [start, end).
func (f *YahooFetcher) FetchDaily(ctx context.Context, symbol string, start, end time.Time) (model.PriceSeries, error) {
	symbol, err := ValidateRequest(symbol, start, end)
	if err != nil {
		return model.PriceSeries{}, err
	}
	series := model.PriceSeries{Symbol: symbol, Bars: []model.PriceBar{}}

	q := url.Values{}
	q.Set("period1", fmt.Sprint(model.Date(start).Unix()))
	q.Set("period2", fmt.Sprint(model.Date(end).Unix()))
	q.Set("interval", "1d")
	q.Set("events", "history")
	u := fmt.Sprintf("%s/v8/finance/chart/%s?%s", f.BaseURL, url.PathEscape(f.yahooSymbol(symbol)), q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return series, f.unavailable(symbol, err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := f.Client.Do(req)
	if err != nil {
		return series, f.unavailable(symbol, fmt.Errorf("yahoo fetch: %w", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return series, f.unavailable(symbol, fmt.Errorf("yahoo read body: %w", err))
	}

	bars, err := parseYahooChart(body, resp.StatusCode)
	if err != nil {
		return series, f.unavailable(symbol, err)
	}
	series.Bars = inRange(normalizeBars(bars), start, end)

	log.Debug().
		Str("provider", f.Name()).
		Str("symbol", symbol).
		Int("bars", len(series.Bars)).
		Msg("yahoo chart fetched")
	return series, nil
}

func (f *YahooFetcher) unavailable(symbol string, err error) error {
	return &DataUnavailableError{Provider: f.Name(), Symbol: symbol, Err: err}
}

// noDataDescription is the prefix Yahoo uses when a valid symbol has no bars in the range.
const noDataDescription = "Data doesn't exist"

// parseYahooChart extracts bars from a v8 chart response. A response without
// timestamps, or Yahoo's "Data doesn't exist" error, yields no bars and no error.
func parseYahooChart(body []byte, status int) ([]model.PriceBar, error) {
	if !gjson.ValidBytes(body) {
		if status != http.StatusOK {
			return nil, fmt.Errorf("yahoo: status %d, body: %s", status, truncate(string(body), 200))
		}
		return nil, fmt.Errorf("yahoo decode: invalid json")
	}

	if apiErr := gjson.GetBytes(body, "chart.error"); apiErr.Exists() && apiErr.Type != gjson.Null {
		desc := apiErr.Get("description").String()
		if strings.HasPrefix(desc, noDataDescription) {
			return nil, nil
		}
		return nil, fmt.Errorf("yahoo api error: %s: %s", apiErr.Get("code").String(), desc)
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("yahoo: status %d", status)
	}

	result := gjson.GetBytes(body, "chart.result.0")
	if !result.Exists() {
		return nil, fmt.Errorf("yahoo: no result in response")
	}
	timestamps := result.Get("timestamp").Array()
	if len(timestamps) == 0 {
		return nil, nil
	}

	offset := result.Get("meta.gmtoffset").Int()
	quote := result.Get("indicators.quote.0")
	opens := quote.Get("open").Array()
	highs := quote.Get("high").Array()
	lows := quote.Get("low").Array()
	closes := quote.Get("close").Array()
	volumes := quote.Get("volume").Array()

	bars := make([]model.PriceBar, 0, len(timestamps))
	for i, ts := range timestamps {
		o, okO := number(opens, i)
		h, okH := number(highs, i)
		l, okL := number(lows, i)
		c, okC := number(closes, i)
		if !okO || !okH || !okL || !okC {
			continue // skip null bars (holidays, halted sessions)
		}
		v, _ := number(volumes, i)
		bars = append(bars, model.PriceBar{
			Date:   model.Date(time.Unix(ts.Int()+offset, 0).UTC()),
			Open:   o,
			High:   h,
			Low:    l,
			Close:  c,
			Volume: int64(v),
		})
	}
	return bars, nil
}

func number(values []gjson.Result, i int) (float64, bool) {
	if i >= len(values) || values[i].Type != gjson.Number {
		return 0, false
	}
	return values[i].Float(), true
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
