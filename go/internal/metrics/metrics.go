package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "hackhub_http_requests_total", Help: "Total HTTP requests served"},
		[]string{"method", "status"},
	)
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "hackhub_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)
	LiveConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "hackhub_live_connections", Help: "Active WebSocket feed connections"},
	)
)

// Register installs the HTTP collectors into the default registry
func Register() {
	prometheus.MustRegister(RequestsTotal, RequestDuration, LiveConnections)
}

// statusRecorder captures the response status for the request counter
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Middleware wraps a handler with request counting and latency observation
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Upgrade requests need the raw ResponseWriter for hijacking.
		if r.Header.Get("Upgrade") != "" {
			next.ServeHTTP(w, r)
			return
		}

		timer := prometheus.NewTimer(RequestDuration.WithLabelValues(r.Method))
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		timer.ObserveDuration()
		RequestsTotal.WithLabelValues(r.Method, strconv.Itoa(rec.status)).Inc()
	})
}
