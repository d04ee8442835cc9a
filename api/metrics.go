package api

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters and histograms for the API
type Metrics struct {
	FeedLoads       *prometheus.CounterVec // labels: outcome={success,error}
	SmsSends        *prometheus.CounterVec // labels: outcome={success,error}
	AlertsSent      prometheus.Counter
	RequestDuration *prometheus.HistogramVec // labels: method, route, status
}

// NewMetrics creates and registers all API metrics with the default
// Prometheus registry
func NewMetrics() *Metrics {
	m := &Metrics{
		FeedLoads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "campus_crime",
			Name:      "feed_loads_total",
			Help:      "Feed fetch and normalization attempts by outcome.",
		}, []string{"outcome"}),
		SmsSends: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "campus_crime",
			Name:      "sms_sends_total",
			Help:      "SMS dispatch attempts by outcome.",
		}, []string{"outcome"}),
		AlertsSent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "campus_crime",
			Name:      "incident_alerts_total",
			Help:      "New-incident alerts fanned out to subscribers.",
		}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "campus_crime",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration by method, route, and status.",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"method", "route", "status"}),
	}

	prometheus.MustRegister(
		m.FeedLoads,
		m.SmsSends,
		m.AlertsSent,
		m.RequestDuration,
	)
	return m
}

// Middleware records request durations per route template
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := r.URL.Path
		if current := mux.CurrentRoute(r); current != nil {
			if tpl, err := current.GetPathTemplate(); err == nil {
				route = tpl
			}
		}

		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		timer := prometheus.NewTimer(prometheus.ObserverFunc(func(seconds float64) {
			m.RequestDuration.WithLabelValues(r.Method, route, strconv.Itoa(sw.status)).Observe(seconds)
		}))
		defer timer.ObserveDuration()

		next.ServeHTTP(sw, r)
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}
