package web

import (
	"net/http"
	"time"

	"stockchart/internal/metrics"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
)

// SetupRoutes configures all routes. m may be nil, in which case /metrics is
// not served and requests are only logged.
func SetupRoutes(handler *Handler, m *metrics.Metrics) *mux.Router {
	r := mux.NewRouter()
	r.Use(observe(m))

	r.HandleFunc("/", handler.Index).Methods("GET")
	r.HandleFunc("/health", handler.HealthCheck).Methods("GET")
	if m != nil {
		r.Handle("/metrics", m.Handler()).Methods("GET")
	}

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/chart", handler.GetChart).Methods("GET")

	return r
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// observe logs every matched request and records it on m under its route template.
func observe(m *metrics.Metrics) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			began := time.Now()
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(sw, r)
			elapsed := time.Since(began)

			route := r.URL.Path
			if cur := mux.CurrentRoute(r); cur != nil {
				if tpl, err := cur.GetPathTemplate(); err == nil {
					route = tpl
				}
			}
			if m != nil {
				m.ObserveRequest(route, sw.status, elapsed)
			}
			log.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", sw.status).
				Dur("duration", elapsed).
				Msg("request")
		})
	}
}
