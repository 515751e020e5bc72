package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baharkarakas/taskmanager-backend/internal/metrics"
	"github.com/baharkarakas/taskmanager-backend/internal/models"
)

type fakeAuth map[string]models.User

func (f fakeAuth) Authenticate(_ context.Context, token string) (models.User, error) {
	u, ok := f[token]
	if !ok {
		return models.User{}, errors.New("unknown token")
	}
	return u, nil
}

func TestAuth(t *testing.T) {
	t.Parallel()
	m := NewAuthMiddleware(fakeAuth{"good": {ID: "u1", Name: "Ann"}})

	var seen UserCtx
	h := m.Auth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		uc, ok := FromCtx(r.Context())
		require.True(t, ok)
		seen = uc
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic good", http.StatusUnauthorized},
		{"empty token", "Bearer   ", http.StatusUnauthorized},
		{"unknown token", "Bearer fake_token", http.StatusUnauthorized},
		{"valid", "Bearer good", http.StatusNoContent},
		{"lowercase scheme", "bearer good", http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusUnauthorized {
				assert.Contains(t, rec.Body.String(), "Please authenticate.")
			}
		})
	}
	assert.Equal(t, "u1", seen.User.ID)
	assert.Equal(t, "good", seen.Token)
}

func TestFromCtx_Empty(t *testing.T) {
	t.Parallel()
	_, ok := FromCtx(context.Background())
	assert.False(t, ok)
}

func TestRequestID(t *testing.T) {
	t.Parallel()
	var inner string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		inner = RequestIDFrom(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NotEmpty(t, inner)
	assert.Equal(t, inner, rec.Header().Get(RequestIDHeader))

	rec2 := httptest.NewRecorder()
	h.ServeHTTP(rec2, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEqual(t, rec.Header().Get(RequestIDHeader), rec2.Header().Get(RequestIDHeader))
}

func TestRecover(t *testing.T) {
	t.Parallel()
	panics := metrics.PanicsTotal.WithLabelValues("unmatched")
	before := promtest.ToFloat64(panics)

	h := RequestID(Recover(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("kaboom")
	})))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "kaboom")
	assert.Equal(t, before+1, promtest.ToFloat64(panics))
}

func TestRouteGroup(t *testing.T) {
	t.Parallel()
	cases := map[string]string{
		"/users":             "users",
		"/users/{id}/avatar": "users",
		"/tasks/{id}":        "tasks",
		"/tasks":             "tasks",
		"/health":            "system",
		"/metrics":           "system",
		"unmatched":          "system",
	}
	for route, want := range cases {
		assert.Equal(t, want, routeGroup(route), route)
	}
}

func TestHTTPMetrics_CountsFailuresByGroup(t *testing.T) {
	t.Parallel()
	r := chi.NewRouter()
	r.Use(HTTPMetrics)
	r.Get("/tasks/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	r.Get("/users/me", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	tasks4xx := httpFailures.WithLabelValues("tasks", "4xx")
	users4xx := httpFailures.WithLabelValues("users", "4xx")
	tasksBefore, usersBefore := promtest.ToFloat64(tasks4xx), promtest.ToFloat64(users4xx)

	for _, path := range []string{"/tasks/abc", "/tasks/def", "/users/me"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, tasksBefore+2, promtest.ToFloat64(tasks4xx))
	assert.Equal(t, usersBefore, promtest.ToFloat64(users4xx))
	assert.Equal(t, "", statusClass(http.StatusNoContent))
	assert.Equal(t, "5xx", statusClass(http.StatusServiceUnavailable))
}
