package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/baharkarakas/taskmanager-backend/internal/api/httpx"
	"github.com/baharkarakas/taskmanager-backend/internal/models"
)

// Authenticator resolves a bearer token to the user that owns it.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (models.User, error)
}

type AuthMiddleware struct {
	A Authenticator
}

func NewAuthMiddleware(a Authenticator) *AuthMiddleware {
	return &AuthMiddleware{A: a}
}

func unauthorized(w http.ResponseWriter) {
	httpx.WriteError(w, http.StatusUnauthorized, "unauthenticated", "Please authenticate.", nil)
}

// Auth requires "Authorization: Bearer <token>" and stores the caller in the
// request context.
func (m *AuthMiddleware) Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ah := r.Header.Get("Authorization")
		if len(ah) < len("Bearer ") || !strings.EqualFold(ah[:len("Bearer ")], "bearer ") {
			unauthorized(w)
			return
		}
		token := strings.TrimSpace(ah[len("Bearer "):])
		if token == "" {
			unauthorized(w)
			return
		}

		u, err := m.A.Authenticate(r.Context(), token)
		if err != nil {
			slog.DebugContext(r.Context(), "authentication failed", "err", err)
			unauthorized(w)
			return
		}
		ctx := WithUser(r.Context(), UserCtx{User: u, Token: token})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
