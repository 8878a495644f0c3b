package collector

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRESTFetcher_FetchDaily(t *testing.T) {
	seen := make(chan *http.Request, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen <- r.Clone(context.Background())
		w.Header().Set("Content-Type", "application/json")
		// out of order, one duplicate date and one null row
		w.Write([]byte(`[
			{"timestamp": 1704412800, "open": 3, "high": 4, "low": 2, "close": 3.5, "volume": 300},
			{"timestamp": 1704240000, "open": 1, "high": 2, "low": 0.5, "close": 1.5, "volume": 100},
			{"timestamp": 1704326400, "open": null, "high": null, "low": null, "close": null, "volume": 0},
			{"timestamp": 1704412800, "open": 3, "high": 5, "low": 2, "close": 4.5, "volume": 350}
		]`))
	}))
	defer srv.Close()

	f := NewRESTFetcher(srv.URL, "secret", "", time.Second)
	series, err := f.FetchDaily(context.Background(), "msft", day(2024, 1, 1), day(2024, 1, 10))
	require.NoError(t, err)

	req := <-seen
	assert.Equal(t, "Bearer secret", req.Header.Get("Authorization"))
	assert.Equal(t, "/api/v1/bars/daily", req.URL.Path)
	assert.Equal(t, "from=2024-01-01&symbol=MSFT&to=2024-01-10", req.URL.RawQuery)

	require.Len(t, series.Bars, 2)
	assert.Equal(t, day(2024, 1, 3), series.Bars[0].Date)
	assert.Equal(t, day(2024, 1, 5), series.Bars[1].Date)
	assert.Equal(t, 4.5, series.Bars[1].Close, "duplicate date keeps the last row")
	require.NoError(t, series.Validate())
}

func TestRESTFetcher_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"not found", http.StatusNotFound, `{}`},
		{"bad gateway", http.StatusBadGateway, `upstream down`},
		{"bad json", http.StatusOK, `{"bars":`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			f := NewRESTFetcher(srv.URL, "", "", time.Second)
			_, err := f.FetchDaily(context.Background(), "MSFT", day(2024, 1, 1), day(2024, 1, 10))
			var unavailable *DataUnavailableError
			require.True(t, errors.As(err, &unavailable), "got %v", err)
			assert.Equal(t, "rest", unavailable.Provider)
		})
	}
}

func TestValidateRequest(t *testing.T) {
	symbol, err := ValidateRequest(" brk-b ", day(2024, 1, 1), day(2024, 1, 1))
	require.NoError(t, err, "start == end is allowed")
	assert.Equal(t, "BRK-B", symbol)

	_, err = ValidateRequest("AAPL", time.Time{}, day(2024, 1, 1))
	assert.ErrorIs(t, err, ErrInvalidRequest)

	_, err = ValidateRequest("AAPL", day(2024, 1, 2), day(2024, 1, 1))
	assert.ErrorIs(t, err, ErrInvalidRequest)
}
