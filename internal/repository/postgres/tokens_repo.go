package postgres

import (
	"context"
	"time"

	"github.com/baharkarakas/taskmanager-backend/internal/models"
)

type tokensRepo struct{ db querier }

func (r *tokensRepo) Add(ctx context.Context, t models.Token) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO user_tokens(user_id, token, created_at, expires_at) VALUES($1,$2,$3,$4)`,
		t.UserID, t.Token, t.CreatedAt, t.ExpiresAt,
	)
	return translate(err)
}

func (r *tokensRepo) List(ctx context.Context, userID string) ([]models.Token, error) {
	rows, err := r.db.Query(ctx,
		`SELECT user_id, token, created_at, expires_at
		   FROM user_tokens
		  WHERE user_id=$1
		  ORDER BY id`,
		userID,
	)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	var out []models.Token
	for rows.Next() {
		var t models.Token
		if err := rows.Scan(&t.UserID, &t.Token, &t.CreatedAt, &t.ExpiresAt); err != nil {
			return nil, translate(err)
		}
		out = append(out, t)
	}
	return out, translate(rows.Err())
}

func (r *tokensRepo) Exists(ctx context.Context, userID, token string, now time.Time) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM user_tokens WHERE user_id=$1 AND token=$2 AND expires_at > $3)`,
		userID, token, now,
	).Scan(&exists)
	if err != nil {
		return false, translate(err)
	}
	return exists, nil
}

func (r *tokensRepo) Remove(ctx context.Context, userID, token string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM user_tokens WHERE user_id=$1 AND token=$2`, userID, token)
	return translate(err)
}

func (r *tokensRepo) RemoveAll(ctx context.Context, userID string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM user_tokens WHERE user_id=$1`, userID)
	return translate(err)
}

func (r *tokensRepo) TrimTo(ctx context.Context, userID string, keep int) error {
	_, err := r.db.Exec(ctx,
		`DELETE FROM user_tokens
		  WHERE user_id=$1
		    AND id NOT IN (
		        SELECT id FROM user_tokens WHERE user_id=$1 ORDER BY id DESC LIMIT $2
		    )`,
		userID, keep,
	)
	return translate(err)
}

func (r *tokensRepo) PruneExpired(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM user_tokens WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, translate(err)
	}
	return tag.RowsAffected(), nil
}
