package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/baharkarakas/taskmanager-backend/internal/api/httpx"
	"github.com/baharkarakas/taskmanager-backend/internal/metrics"
)

// Recover answers a panicking handler with the 500 envelope. The panic value
// and stack go to the log only.
func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			route := routePattern(r)
			metrics.PanicsTotal.WithLabelValues(route).Inc()
			slog.ErrorContext(r.Context(), "panic",
				"err", rec, "method", r.Method, "route", route, "stack", string(debug.Stack()))
			httpx.WriteError(w, http.StatusInternalServerError, "internal_error", "internal error", nil)
		}()
		next.ServeHTTP(w, r)
	})
}
