package sqlite

import (
	"context"
	"time"

	"github.com/baharkarakas/taskmanager-backend/internal/models"
)

type tokensRepo struct{ db DBTX }

func (r *tokensRepo) Add(ctx context.Context, t models.Token) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO user_tokens(user_id, token, created_at, expires_at) VALUES(?,?,?,?)`,
		t.UserID, t.Token, t.CreatedAt.UTC(), t.ExpiresAt.UTC(),
	)
	return translate(err)
}

func (r *tokensRepo) List(ctx context.Context, userID string) ([]models.Token, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT user_id, token, created_at, expires_at
		   FROM user_tokens
		  WHERE user_id=?
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
		if err := rows.Scan(&t.UserID, &t.Token, timeCol{&t.CreatedAt}, timeCol{&t.ExpiresAt}); err != nil {
			return nil, translate(err)
		}
		out = append(out, t)
	}
	return out, translate(rows.Err())
}

func (r *tokensRepo) Exists(ctx context.Context, userID, token string, now time.Time) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM user_tokens WHERE user_id=? AND token=? AND expires_at > ?)`,
		userID, token, now.UTC(),
	).Scan(&exists)
	if err != nil {
		return false, translate(err)
	}
	return exists, nil
}

func (r *tokensRepo) Remove(ctx context.Context, userID, token string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM user_tokens WHERE user_id=? AND token=?`, userID, token)
	return translate(err)
}

func (r *tokensRepo) RemoveAll(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM user_tokens WHERE user_id=?`, userID)
	return translate(err)
}

func (r *tokensRepo) TrimTo(ctx context.Context, userID string, keep int) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM user_tokens
		  WHERE user_id=?
		    AND id NOT IN (
		        SELECT id FROM user_tokens WHERE user_id=? ORDER BY id DESC LIMIT ?
		    )`,
		userID, userID, keep,
	)
	return translate(err)
}

func (r *tokensRepo) PruneExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM user_tokens WHERE expires_at <= ?`, now.UTC())
	if err != nil {
		return 0, translate(err)
	}
	return affected(res)
}
