package metrics

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"stockchart/internal/collector"
	"stockchart/internal/model"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Fetch outcomes recorded on stockchart_fetch_total.
const (
	OutcomeOK          = "ok"
	OutcomeEmpty       = "empty"
	OutcomeInvalid     = "invalid"
	OutcomeUnavailable = "unavailable"
)

// Metrics holds all Prometheus metrics for the chart service.
type Metrics struct {
	FetchTotal    *prometheus.CounterVec   // labels: provider, outcome
	FetchDuration *prometheus.HistogramVec // labels: provider
	FetchBars     prometheus.Histogram

	HTTPRequests *prometheus.CounterVec   // labels: route, code
	HTTPDuration *prometheus.HistogramVec // labels: route

	registry *prometheus.Registry
}

// NewMetrics registers and returns all metrics on a fresh registry, together
// with the Go runtime and process collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		FetchTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "stockchart_fetch_total",
			Help: "Market-data fetches by provider and outcome",
		}, []string{"provider", "outcome"}),
		FetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "stockchart_fetch_duration_seconds",
			Help:    "Latency of market-data fetches",
			Buckets: prometheus.DefBuckets,
		}, []string{"provider"}),
		FetchBars: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "stockchart_fetch_bars",
			Help:    "Daily bars returned per successful fetch",
			Buckets: []float64{0, 20, 50, 100, 200, 500, 1000, 2500, 5000},
		}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "stockchart_http_requests_total",
			Help: "HTTP requests by route and status code",
		}, []string{"route", "code"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "stockchart_http_request_duration_seconds",
			Help:    "HTTP request latency by route",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		registry: prometheus.NewRegistry(),
	}
	m.registry.MustRegister(
		m.FetchTotal,
		m.FetchDuration,
		m.FetchBars,
		m.HTTPRequests,
		m.HTTPDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// WrapFetcher returns a Fetcher that records every call on m.
func (m *Metrics) WrapFetcher(f collector.Fetcher) collector.Fetcher {
	return &instrumentedFetcher{next: f, m: m}
}

type instrumentedFetcher struct {
	next collector.Fetcher
	m    *Metrics
}

func (f *instrumentedFetcher) Name() string { return f.next.Name() }

func (f *instrumentedFetcher) FetchDaily(ctx context.Context, symbol string, start, end time.Time) (model.PriceSeries, error) {
	provider := f.next.Name()
	began := time.Now()
	series, err := f.next.FetchDaily(ctx, symbol, start, end)

	outcome := OutcomeOK
	switch {
	case errors.Is(err, collector.ErrInvalidRequest):
		outcome = OutcomeInvalid
	case err != nil:
		outcome = OutcomeUnavailable
	case series.Len() == 0:
		outcome = OutcomeEmpty
	}
	f.m.FetchTotal.WithLabelValues(provider, outcome).Inc()
	if outcome != OutcomeInvalid {
		f.m.FetchDuration.WithLabelValues(provider).Observe(time.Since(began).Seconds())
	}
	if err == nil {
		f.m.FetchBars.Observe(float64(series.Len()))
	}
	return series, err
}

// ObserveRequest records one served HTTP request.
func (m *Metrics) ObserveRequest(route string, code int, d time.Duration) {
	m.HTTPRequests.WithLabelValues(route, strconv.Itoa(code)).Inc()
	m.HTTPDuration.WithLabelValues(route).Observe(d.Seconds())
}
