package notify

import (
	"context"
	"log/slog"
	"time"

	"github.com/baharkarakas/taskmanager-backend/internal/metrics"
	"github.com/baharkarakas/taskmanager-backend/internal/worker"
)

const sendTimeout = 10 * time.Second

type Dispatcher struct {
	n    Notifier
	pool *worker.Pool
	log  *slog.Logger
}

func NewDispatcher(n Notifier, pool *worker.Pool, log *slog.Logger) *Dispatcher {
	return &Dispatcher{n: n, pool: pool, log: log}
}

// Dispatch queues msg and returns immediately.
func (d *Dispatcher) Dispatch(msg Message) {
	ok := d.pool.TrySubmit(func() {
		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		defer cancel()
		if err := d.n.Send(ctx, msg); err != nil {
			d.log.Warn("notification failed", "kind", msg.Kind, "to", msg.ToEmail, "err", err)
			metrics.NotificationsTotal.WithLabelValues(string(msg.Kind), "failed").Inc()
			return
		}
		metrics.NotificationsTotal.WithLabelValues(string(msg.Kind), "sent").Inc()
	})
	if !ok {
		d.log.Warn("notification dropped", "kind", msg.Kind, "to", msg.ToEmail)
		metrics.NotificationsTotal.WithLabelValues(string(msg.Kind), "dropped").Inc()
	}
}
