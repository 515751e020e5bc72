package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/baharkarakas/taskmanager-backend/internal/api/validate"
	"github.com/baharkarakas/taskmanager-backend/internal/services"
)

type APIError struct {
	Error   string      `json:"error"`
	Code    string      `json:"code,omitempty"`
	Details interface{} `json:"details,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func WriteError(w http.ResponseWriter, status int, code, msg string, details interface{}) {
	WriteJSON(w, status, APIError{
		Error:   msg,
		Code:    code,
		Details: details,
	})
}

// WriteServiceError maps service sentinels to status codes. Unknown errors
// are logged and answered with a bare 500.
func WriteServiceError(ctx context.Context, w http.ResponseWriter, log *slog.Logger, err error) {
	switch {
	case errors.Is(err, services.ErrValidation):
		var errs validate.Errs
		if errors.As(err, &errs) {
			WriteError(w, http.StatusBadRequest, "validation_error", errs.Error(), errs)
			return
		}
		WriteError(w, http.StatusBadRequest, "validation_error", "validation failed", nil)
	case errors.Is(err, services.ErrInvalidCredentials):
		WriteError(w, http.StatusBadRequest, "invalid_credentials", "Unable to login", nil)
	case errors.Is(err, services.ErrUnauthenticated):
		WriteError(w, http.StatusUnauthorized, "unauthenticated", "Please authenticate.", nil)
	case errors.Is(err, services.ErrInvalidOperation):
		WriteError(w, http.StatusBadRequest, "invalid_operation", "Invalid Operation", nil)
	case errors.Is(err, services.ErrNotFound):
		WriteError(w, http.StatusNotFound, "not_found", "not found", nil)
	default:
		log.ErrorContext(ctx, "request failed", "err", err)
		WriteError(w, http.StatusInternalServerError, "internal_error", "internal error", nil)
	}
}
