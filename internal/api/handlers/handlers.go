// Package handlers adapts HTTP requests to the user and task services.
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/baharkarakas/taskmanager-backend/internal/api/httpx"
	"github.com/baharkarakas/taskmanager-backend/internal/middleware"
)

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "bad_request", "invalid JSON body", nil)
		return false
	}
	return true
}

func fail(w http.ResponseWriter, r *http.Request, err error) {
	httpx.WriteServiceError(r.Context(), w, slog.Default(), err)
}

// caller is only valid behind the auth middleware.
func caller(r *http.Request) middleware.UserCtx {
	uc, _ := middleware.FromCtx(r.Context())
	return uc
}
