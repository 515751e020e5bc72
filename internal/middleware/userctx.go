package middleware

import (
	"context"

	"github.com/baharkarakas/taskmanager-backend/internal/models"
)

type userKey struct{}

// UserCtx is the authenticated caller and the token it presented.
type UserCtx struct {
	User  models.User
	Token string
}

func WithUser(ctx context.Context, u UserCtx) context.Context {
	return context.WithValue(ctx, userKey{}, u)
}

func FromCtx(ctx context.Context) (UserCtx, bool) {
	u, ok := ctx.Value(userKey{}).(UserCtx)
	return u, ok
}
