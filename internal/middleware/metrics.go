package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	httpLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_requests_latency_seconds",
			Help:    "Latency of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"group", "method", "route", "status"}, // users|tasks|system
	)
	httpFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_request_failures_total",
			Help: "Requests answered with 4xx or 5xx, by resource group.",
		},
		[]string{"group", "class"}, // users|tasks|system, 4xx|5xx
	)

	metricsOnce sync.Once
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (w *statusRecorder) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// HTTPMetrics records latency per route and counts failed requests per
// resource group.
func HTTPMetrics(next http.Handler) http.Handler {
	metricsOnce.Do(func() {
		prometheus.MustRegister(httpLatency, httpFailures)
	})

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		route := routePattern(r)
		group := routeGroup(route)
		httpLatency.WithLabelValues(group, r.Method, route, strconv.Itoa(rec.status)).
			Observe(time.Since(start).Seconds())
		if class := statusClass(rec.status); class != "" {
			httpFailures.WithLabelValues(group, class).Inc()
		}
	})
}

func routePattern(r *http.Request) string {
	if rc := chi.RouteContext(r.Context()); rc != nil {
		if patt := rc.RoutePattern(); patt != "" {
			return patt
		}
	}
	return "unmatched"
}

// routeGroup maps "/users/{id}/avatar" to "users" and "/tasks/{id}" to "tasks".
func routeGroup(route string) string {
	first, _, _ := strings.Cut(strings.TrimPrefix(route, "/"), "/")
	switch first {
	case "users", "tasks":
		return first
	default:
		return "system"
	}
}

func statusClass(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	default:
		return ""
	}
}
