package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"stockchart/internal/chart"
	"stockchart/internal/collector"
	"stockchart/internal/model"

	"github.com/rs/zerolog/log"
)

// Defaults prefill the form and fill in missing query parameters.
type Defaults struct {
	Ticker       string
	LookbackDays int
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	collector *collector.Collector
	builder   *chart.Builder
	defaults  Defaults
	now       func() time.Time
}

// NewHandler creates a new Handler
func NewHandler(col *collector.Collector, builder *chart.Builder, defaults Defaults) *Handler {
	if builder == nil {
		builder = chart.NewBuilder(chart.Options{})
	}
	return &Handler{
		collector: col,
		builder:   builder,
		defaults:  defaults,
		now:       time.Now,
	}
}

// chartQuery is one parsed chart request.
type chartQuery struct {
	Ticker string
	Start  time.Time
	End    time.Time
}

// parseQuery reads ticker, start and end, falling back to the defaults for
// absent parameters. A malformed date wraps collector.ErrInvalidRequest.
func (h *Handler) parseQuery(v url.Values) (chartQuery, error) {
	end := model.Date(h.now())
	q := chartQuery{
		Ticker: h.defaults.Ticker,
		Start:  end.AddDate(0, 0, -h.defaults.LookbackDays),
		End:    end,
	}
	if _, ok := v["ticker"]; ok {
		q.Ticker = strings.TrimSpace(v.Get("ticker"))
	}
	var err error
	if s := v.Get("start"); s != "" {
		if q.Start, err = parseDate("start", s); err != nil {
			return q, err
		}
	}
	if s := v.Get("end"); s != "" {
		if q.End, err = parseDate("end", s); err != nil {
			return q, err
		}
	}
	return q, nil
}

func parseDate(field, s string) (time.Time, error) {
	t, err := time.Parse(model.DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s date %q is not YYYY-MM-DD", collector.ErrInvalidRequest, field, s)
	}
	return t, nil
}

// render runs the pipeline for q and returns the finished figure.
func (h *Handler) render(r *http.Request, q chartQuery) (*model.AugmentedSeries, *chart.Figure, error) {
	series, err := h.collector.Collect(r.Context(), q.Ticker, q.Start, q.End)
	if err != nil {
		return nil, nil, err
	}
	return series, h.builder.Build(series), nil
}

// GetChart handles GET /api/v1/chart
func (h *Handler) GetChart(w http.ResponseWriter, r *http.Request) {
	q, err := h.parseQuery(r.URL.Query())
	if err == nil {
		var fig *chart.Figure
		if _, fig, err = h.render(r, q); err == nil {
			respondJSON(w, http.StatusOK, fig)
			return
		}
	}
	status := statusFor(err)
	logFailure(r, status, err)
	respondJSON(w, status, map[string]string{"error": err.Error()})
}

// Index handles GET /. The form alone is served until the request carries a
// ticker, start and end; then the chart is rendered below it.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	values := r.URL.Query()
	q, err := h.parseQuery(values)

	data := pageData{
		Ticker: q.Ticker,
		Start:  formatDate(q.Start),
		End:    formatDate(q.End),
	}
	if err == nil && !submitted(values) {
		writePage(w, http.StatusOK, data)
		return
	}
	// Echo raw input back so a typo stays visible in the form.
	if err != nil {
		data.Start, data.End = values.Get("start"), values.Get("end")
	}

	var (
		series *model.AugmentedSeries
		fig    *chart.Figure
	)
	if err == nil {
		series, fig, err = h.render(r, q)
	}
	if err != nil {
		status := statusFor(err)
		logFailure(r, status, err)
		data.Error = err.Error()
		writePage(w, status, data)
		return
	}

	raw, err := json.Marshal(fig)
	if err != nil {
		log.Error().Err(err).Msg("encode figure")
		data.Error = "could not encode chart"
		writePage(w, http.StatusInternalServerError, data)
		return
	}
	data.Figure = raw
	if series.Len() == 0 {
		data.Notice = fmt.Sprintf("No data for %s between %s and %s.", series.Symbol, data.Start, data.End)
	}
	writePage(w, http.StatusOK, data)
}

// HealthCheck handles GET /health
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func submitted(v url.Values) bool {
	for _, k := range []string{"ticker", "start", "end"} {
		if _, ok := v[k]; !ok {
			return false
		}
	}
	return true
}

// statusFor maps pipeline errors onto HTTP status codes.
func statusFor(err error) int {
	var (
		malformed   *model.MalformedSeriesError
		unavailable *collector.DataUnavailableError
	)
	switch {
	case errors.Is(err, collector.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.As(err, &malformed):
		return http.StatusUnprocessableEntity
	case errors.As(err, &unavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func logFailure(r *http.Request, status int, err error) {
	ev := log.Warn()
	if status >= http.StatusInternalServerError {
		ev = log.Error()
	}
	ev.Err(err).Str("path", r.URL.Path).Int("status", status).Msg("chart request failed")
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(model.DateLayout)
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
