package collector

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Three NYSE sessions (09:30 EST = 14:30 UTC) plus a null holiday row.
const yahooChartJSON = `{
  "chart": {
    "result": [{
      "meta": {"symbol": "AAPL", "gmtoffset": -18000, "exchangeTimezoneName": "America/New_York"},
      "timestamp": [1704205800, 1704292200, 1704378600, 1704465000],
      "indicators": {
        "quote": [{
          "open":   [187.15, 184.22, null, 181.99],
          "high":   [188.44, 185.88, null, 182.76],
          "low":    [183.89, 183.43, null, 180.17],
          "close":  [185.64, 184.25, null, 181.18],
          "volume": [82488700, 58414500, null, 62303300]
        }]
      }
    }],
    "error": null
  }
}`

func newYahooServer(t *testing.T, status int, body string) (*httptest.Server, *atomic.Int32, func() string) {
	t.Helper()
	var hits atomic.Int32
	var lastQuery atomic.Value
	lastQuery.Store("")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		lastQuery.Store(r.URL.EscapedPath() + "?" + r.URL.RawQuery)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &hits, func() string { return lastQuery.Load().(string) }
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestYahooFetcher_ParsesDailyBars(t *testing.T) {
	srv, hits, query := newYahooServer(t, http.StatusOK, yahooChartJSON)
	f := NewYahooFetcher(srv.URL, "", 5*time.Second)

	series, err := f.FetchDaily(context.Background(), "aapl", day(2024, 1, 1), day(2024, 1, 6))
	require.NoError(t, err)
	assert.Equal(t, int32(1), hits.Load())
	assert.Contains(t, query(), "/v8/finance/chart/AAPL")
	assert.Contains(t, query(), "period1=1704067200")
	assert.Contains(t, query(), "period2=1704499200")
	assert.Contains(t, query(), "interval=1d")

	assert.Equal(t, "AAPL", series.Symbol)
	require.Len(t, series.Bars, 3, "null row must be skipped")
	assert.Equal(t, day(2024, 1, 2), series.Bars[0].Date)
	assert.Equal(t, day(2024, 1, 3), series.Bars[1].Date)
	assert.Equal(t, day(2024, 1, 5), series.Bars[2].Date)
	assert.Equal(t, 187.15, series.Bars[0].Open)
	assert.Equal(t, 185.64, series.Bars[0].Close)
	assert.Equal(t, int64(62303300), series.Bars[2].Volume)
}

func TestYahooFetcher_SymbolAlias(t *testing.T) {
	srv, _, query := newYahooServer(t, http.StatusOK, `{"chart":{"result":[{"meta":{},"indicators":{"quote":[{}]}}],"error":null}}`)
	f := NewYahooFetcher(srv.URL, "", time.Second)

	_, err := f.FetchDaily(context.Background(), "SPX500", day(2024, 1, 1), day(2024, 2, 1))
	require.NoError(t, err)
	assert.Contains(t, query(), "/v8/finance/chart/%5EGSPC")
}

func TestYahooFetcher_NoTimestampsIsEmpty(t *testing.T) {
	body := `{"chart":{"result":[{"meta":{"symbol":"AAPL"},"indicators":{"quote":[{}]}}],"error":null}}`
	srv, _, _ := newYahooServer(t, http.StatusOK, body)
	f := NewYahooFetcher(srv.URL, "", time.Second)

	series, err := f.FetchDaily(context.Background(), "AAPL", day(2030, 1, 1), day(2030, 2, 1))
	require.NoError(t, err)
	assert.NotNil(t, series.Bars)
	assert.Empty(t, series.Bars)
}

func TestYahooFetcher_DataDoesNotExistIsEmpty(t *testing.T) {
	body := `{"chart":{"result":null,"error":{"code":"Bad Request","description":"Data doesn't exist for startDate = 1893456000, endDate = 1896134400"}}}`
	srv, _, _ := newYahooServer(t, http.StatusBadRequest, body)
	f := NewYahooFetcher(srv.URL, "", time.Second)

	series, err := f.FetchDaily(context.Background(), "AAPL", day(2030, 1, 1), day(2030, 2, 1))
	require.NoError(t, err)
	assert.Empty(t, series.Bars)
}

func TestYahooFetcher_ProviderErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"unknown symbol", http.StatusNotFound, `{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`},
		{"server error", http.StatusInternalServerError, `oops`},
		{"garbage body", http.StatusOK, `not json`},
		{"missing result", http.StatusOK, `{"chart":{"error":null}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _, _ := newYahooServer(t, tt.status, tt.body)
			f := NewYahooFetcher(srv.URL, "", time.Second)

			_, err := f.FetchDaily(context.Background(), "ZZZZ", day(2024, 1, 1), day(2024, 2, 1))
			require.Error(t, err)
			var unavailable *DataUnavailableError
			require.True(t, errors.As(err, &unavailable), "got %v", err)
			assert.Equal(t, "yahoo", unavailable.Provider)
			assert.Equal(t, "ZZZZ", unavailable.Symbol)
		})
	}
}

func TestYahooFetcher_NetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	f := NewYahooFetcher(url, "", time.Second)
	_, err := f.FetchDaily(context.Background(), "AAPL", day(2024, 1, 1), day(2024, 2, 1))
	var unavailable *DataUnavailableError
	require.True(t, errors.As(err, &unavailable), "got %v", err)
}

func TestYahooFetcher_ValidationBeforeNetwork(t *testing.T) {
	srv, hits, _ := newYahooServer(t, http.StatusOK, yahooChartJSON)
	f := NewYahooFetcher(srv.URL, "", time.Second)

	_, err := f.FetchDaily(context.Background(), "AAPL", day(2024, 3, 1), day(2024, 2, 1))
	require.ErrorIs(t, err, ErrInvalidRequest)

	_, err = f.FetchDaily(context.Background(), "   ", day(2024, 1, 1), day(2024, 2, 1))
	require.ErrorIs(t, err, ErrInvalidRequest)

	assert.Equal(t, int32(0), hits.Load(), "no request may reach the provider")
}
