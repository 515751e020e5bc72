package repository

import (
	"context"
	"errors"
	"time"

	"github.com/baharkarakas/taskmanager-backend/internal/models"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("already exists")
)

type Users interface {
	Create(ctx context.Context, u models.User) (models.User, error)
	GetByID(ctx context.Context, id string) (models.User, error)
	GetByEmail(ctx context.Context, email string) (models.User, error)
	// Update writes name, email, password hash and age.
	Update(ctx context.Context, u models.User) (models.User, error)
	Delete(ctx context.Context, id string) error
	SetAvatar(ctx context.Context, id string, data []byte, contentType string) error
	// GetAvatar returns ErrNotFound when the user is missing or has no avatar.
	GetAvatar(ctx context.Context, id string) (data []byte, contentType string, err error)
}

// Tokens is the per-user session list. Add is a single insert, so concurrent
// logins for one user never overwrite each other.
type Tokens interface {
	Add(ctx context.Context, t models.Token) error
	List(ctx context.Context, userID string) ([]models.Token, error)
	Exists(ctx context.Context, userID, token string, now time.Time) (bool, error)
	Remove(ctx context.Context, userID, token string) error
	RemoveAll(ctx context.Context, userID string) error
	// TrimTo keeps the newest keep tokens of the user.
	TrimTo(ctx context.Context, userID string, keep int) error
	PruneExpired(ctx context.Context, now time.Time) (int64, error)
}

// Tasks scopes every read and write by owner inside the query itself.
type Tasks interface {
	Create(ctx context.Context, t models.Task) (models.Task, error)
	GetOwned(ctx context.Context, id, ownerID string) (models.Task, error)
	ListOwned(ctx context.Context, ownerID string, q models.TaskQuery) ([]models.Task, error)
	UpdateOwned(ctx context.Context, t models.Task) (models.Task, error)
	DeleteOwned(ctx context.Context, id, ownerID string) (models.Task, error)
	DeleteByOwner(ctx context.Context, ownerID string) (int64, error)
}

// Transactor runs fn against repositories bound to a single transaction.
type Transactor interface {
	WithTx(ctx context.Context, fn func(Repositories) error) error
}

type Repositories struct {
	Users  Users
	Tokens Tokens
	Tasks  Tasks
	Tx     Transactor
}
