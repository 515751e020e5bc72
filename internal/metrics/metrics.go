package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Auth
	AuthEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_events_total",
			Help: "Authentication lifecycle events",
		},
		[]string{"event", "result"}, // signup|login|logout|logout_all|delete, ok|fail
	)
	TokensPruned = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "auth_tokens_pruned_total",
			Help: "Expired session tokens removed by the pruner",
		},
	)

	// Notifications
	NotificationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifications_total",
			Help: "Outbound notifications by kind and outcome",
		},
		[]string{"kind", "result"}, // welcome|farewell, sent|failed|dropped
	)

	// Recovered handler panics
	PanicsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_panics_total",
			Help: "Handler panics turned into 500 responses",
		},
		[]string{"route"},
	)

	// Worker queue
	WorkerQueueDepth = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "worker_queue_depth",
			Help: "Current worker queue depth",
		},
	)

	initOnce sync.Once
)

// Handler serves /metrics.
var Handler = promhttp.Handler

// Init registers the collectors with the default registry; safe to call more than once.
func Init() {
	initOnce.Do(func() {
		prometheus.MustRegister(AuthEventsTotal)
		prometheus.MustRegister(TokensPruned)
		prometheus.MustRegister(NotificationsTotal)
		prometheus.MustRegister(PanicsTotal)
		prometheus.MustRegister(WorkerQueueDepth)
	})
}

func Result(err error) string {
	if err != nil {
		return "fail"
	}
	return "ok"
}
