package postgres

import (
	"context"

	"github.com/baharkarakas/taskmanager-backend/internal/models"
	"github.com/baharkarakas/taskmanager-backend/internal/repository"
	"github.com/google/uuid"
)

type usersRepo struct{ db querier }

const userColumns = `id, name, email, password_hash, age, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Age, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

func (r *usersRepo) Create(ctx context.Context, u models.User) (models.User, error) {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	out, err := scanUser(r.db.QueryRow(ctx,
		`INSERT INTO users(id, name, email, password_hash, age)
		 VALUES($1,$2,$3,$4,$5)
		 RETURNING `+userColumns,
		u.ID, u.Name, u.Email, u.PasswordHash, u.Age,
	))
	if err != nil {
		return models.User{}, translate(err)
	}
	return out, nil
}

func (r *usersRepo) GetByID(ctx context.Context, id string) (models.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id=$1`, id))
	if err != nil {
		return models.User{}, translate(err)
	}
	return u, nil
}

func (r *usersRepo) GetByEmail(ctx context.Context, email string) (models.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email=$1`, email))
	if err != nil {
		return models.User{}, translate(err)
	}
	return u, nil
}

func (r *usersRepo) Update(ctx context.Context, u models.User) (models.User, error) {
	out, err := scanUser(r.db.QueryRow(ctx,
		`UPDATE users
		    SET name=$2, email=$3, password_hash=$4, age=$5, updated_at=now()
		  WHERE id=$1
		  RETURNING `+userColumns,
		u.ID, u.Name, u.Email, u.PasswordHash, u.Age,
	))
	if err != nil {
		return models.User{}, translate(err)
	}
	return out, nil
}

func (r *usersRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM users WHERE id=$1`, id)
	if err != nil {
		return translate(err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *usersRepo) SetAvatar(ctx context.Context, id string, data []byte, contentType string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE users SET avatar=$2, avatar_content_type=$3, updated_at=now() WHERE id=$1`,
		id, data, contentType,
	)
	if err != nil {
		return translate(err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *usersRepo) GetAvatar(ctx context.Context, id string) ([]byte, string, error) {
	var (
		data        []byte
		contentType string
	)
	err := r.db.QueryRow(ctx,
		`SELECT avatar, avatar_content_type FROM users WHERE id=$1`, id,
	).Scan(&data, &contentType)
	if err != nil {
		return nil, "", translate(err)
	}
	if len(data) == 0 {
		return nil, "", repository.ErrNotFound
	}
	return data, contentType, nil
}
