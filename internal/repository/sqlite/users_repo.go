package sqlite

import (
	"context"
	"time"

	"github.com/baharkarakas/taskmanager-backend/internal/models"
	"github.com/baharkarakas/taskmanager-backend/internal/repository"
	"github.com/google/uuid"
)

type usersRepo struct {
	db  DBTX
	now func() time.Time
}

const userColumns = `id, name, email, password_hash, age, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Age, timeCol{&u.CreatedAt}, timeCol{&u.UpdatedAt})
	return u, err
}

func (r *usersRepo) Create(ctx context.Context, u models.User) (models.User, error) {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	ts := r.now()
	out, err := scanUser(r.db.QueryRowContext(ctx,
		`INSERT INTO users(id, name, email, password_hash, age, created_at, updated_at)
		 VALUES(?,?,?,?,?,?,?)
		 RETURNING `+userColumns,
		u.ID, u.Name, u.Email, u.PasswordHash, u.Age, ts, ts,
	))
	if err != nil {
		return models.User{}, translate(err)
	}
	return out, nil
}

func (r *usersRepo) GetByID(ctx context.Context, id string) (models.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id=?`, id))
	if err != nil {
		return models.User{}, translate(err)
	}
	return u, nil
}

func (r *usersRepo) GetByEmail(ctx context.Context, email string) (models.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email=?`, email))
	if err != nil {
		return models.User{}, translate(err)
	}
	return u, nil
}

func (r *usersRepo) Update(ctx context.Context, u models.User) (models.User, error) {
	out, err := scanUser(r.db.QueryRowContext(ctx,
		`UPDATE users
		    SET name=?, email=?, password_hash=?, age=?, updated_at=?
		  WHERE id=?
		  RETURNING `+userColumns,
		u.Name, u.Email, u.PasswordHash, u.Age, r.now(), u.ID,
	))
	if err != nil {
		return models.User{}, translate(err)
	}
	return out, nil
}

func (r *usersRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id=?`, id)
	if err != nil {
		return translate(err)
	}
	n, err := affected(res)
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *usersRepo) SetAvatar(ctx context.Context, id string, data []byte, contentType string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET avatar=?, avatar_content_type=?, updated_at=? WHERE id=?`,
		data, contentType, r.now(), id,
	)
	if err != nil {
		return translate(err)
	}
	n, err := affected(res)
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *usersRepo) GetAvatar(ctx context.Context, id string) ([]byte, string, error) {
	var (
		data        []byte
		contentType string
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT avatar, avatar_content_type FROM users WHERE id=?`, id,
	).Scan(&data, &contentType)
	if err != nil {
		return nil, "", translate(err)
	}
	if len(data) == 0 {
		return nil, "", repository.ErrNotFound
	}
	return data, contentType, nil
}
