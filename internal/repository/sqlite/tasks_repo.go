package sqlite

import (
	"context"
	"strings"
	"time"

	"github.com/baharkarakas/taskmanager-backend/internal/models"
	"github.com/google/uuid"
)

type tasksRepo struct {
	db  DBTX
	now func() time.Time
}

const taskColumns = `id, description, completed, owner_id, created_at, updated_at`

func scanTask(row rowScanner) (models.Task, error) {
	var t models.Task
	err := row.Scan(&t.ID, &t.Description, &t.Completed, &t.OwnerID, timeCol{&t.CreatedAt}, timeCol{&t.UpdatedAt})
	return t, err
}

func (r *tasksRepo) Create(ctx context.Context, t models.Task) (models.Task, error) {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	ts := r.now()
	out, err := scanTask(r.db.QueryRowContext(ctx,
		`INSERT INTO tasks(id, description, completed, owner_id, created_at, updated_at)
		 VALUES(?,?,?,?,?,?)
		 RETURNING `+taskColumns,
		t.ID, t.Description, t.Completed, t.OwnerID, ts, ts,
	))
	if err != nil {
		return models.Task{}, translate(err)
	}
	return out, nil
}

func (r *tasksRepo) GetOwned(ctx context.Context, id, ownerID string) (models.Task, error) {
	t, err := scanTask(r.db.QueryRowContext(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE id=? AND owner_id=?`, id, ownerID,
	))
	if err != nil {
		return models.Task{}, translate(err)
	}
	return t, nil
}

var sortColumns = map[models.TaskSortField]string{
	models.TaskSortCreatedAt:   "created_at",
	models.TaskSortUpdatedAt:   "updated_at",
	models.TaskSortDescription: "description",
	models.TaskSortCompleted:   "completed",
}

func (r *tasksRepo) ListOwned(ctx context.Context, ownerID string, q models.TaskQuery) ([]models.Task, error) {
	var b strings.Builder
	args := []any{ownerID}
	b.WriteString(`SELECT ` + taskColumns + ` FROM tasks WHERE owner_id=?`)
	if q.Completed != nil {
		b.WriteString(` AND completed=?`)
		args = append(args, *q.Completed)
	}

	col, ok := sortColumns[q.SortBy]
	if !ok {
		col = "created_at"
	}
	dir := "ASC"
	if q.Desc {
		dir = "DESC"
	}
	b.WriteString(` ORDER BY ` + col + ` ` + dir + `, rowid ` + dir)

	// SQLite only accepts OFFSET after a LIMIT; -1 means no limit.
	if q.Limit > 0 || q.Offset > 0 {
		limit := q.Limit
		if limit <= 0 {
			limit = -1
		}
		b.WriteString(` LIMIT ? OFFSET ?`)
		args = append(args, limit, q.Offset)
	}

	rows, err := r.db.QueryContext(ctx, b.String(), args...)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	out := []models.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, translate(err)
		}
		out = append(out, t)
	}
	return out, translate(rows.Err())
}

func (r *tasksRepo) UpdateOwned(ctx context.Context, t models.Task) (models.Task, error) {
	out, err := scanTask(r.db.QueryRowContext(ctx,
		`UPDATE tasks
		    SET description=?, completed=?, updated_at=?
		  WHERE id=? AND owner_id=?
		  RETURNING `+taskColumns,
		t.Description, t.Completed, r.now(), t.ID, t.OwnerID,
	))
	if err != nil {
		return models.Task{}, translate(err)
	}
	return out, nil
}

func (r *tasksRepo) DeleteOwned(ctx context.Context, id, ownerID string) (models.Task, error) {
	t, err := scanTask(r.db.QueryRowContext(ctx,
		`DELETE FROM tasks WHERE id=? AND owner_id=? RETURNING `+taskColumns, id, ownerID,
	))
	if err != nil {
		return models.Task{}, translate(err)
	}
	return t, nil
}

func (r *tasksRepo) DeleteByOwner(ctx context.Context, ownerID string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE owner_id=?`, ownerID)
	if err != nil {
		return 0, translate(err)
	}
	return affected(res)
}
