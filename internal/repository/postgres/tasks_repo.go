package postgres

import (
	"context"
	"strconv"
	"strings"

	"github.com/baharkarakas/taskmanager-backend/internal/models"
	"github.com/google/uuid"
)

type tasksRepo struct{ db querier }

const taskColumns = `id, description, completed, owner_id, created_at, updated_at`

func scanTask(row rowScanner) (models.Task, error) {
	var t models.Task
	err := row.Scan(&t.ID, &t.Description, &t.Completed, &t.OwnerID, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

func (r *tasksRepo) Create(ctx context.Context, t models.Task) (models.Task, error) {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	out, err := scanTask(r.db.QueryRow(ctx,
		`INSERT INTO tasks(id, description, completed, owner_id)
		 VALUES($1,$2,$3,$4)
		 RETURNING `+taskColumns,
		t.ID, t.Description, t.Completed, t.OwnerID,
	))
	if err != nil {
		return models.Task{}, translate(err)
	}
	return out, nil
}

func (r *tasksRepo) GetOwned(ctx context.Context, id, ownerID string) (models.Task, error) {
	t, err := scanTask(r.db.QueryRow(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE id=$1 AND owner_id=$2`, id, ownerID,
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
	b.WriteString(`SELECT ` + taskColumns + ` FROM tasks WHERE owner_id=$1`)
	if q.Completed != nil {
		args = append(args, *q.Completed)
		b.WriteString(` AND completed=$` + strconv.Itoa(len(args)))
	}

	col, ok := sortColumns[q.SortBy]
	if !ok {
		col = "created_at"
	}
	dir := "ASC"
	if q.Desc {
		dir = "DESC"
	}
	b.WriteString(` ORDER BY ` + col + ` ` + dir + `, id ` + dir)

	if q.Limit > 0 {
		args = append(args, q.Limit)
		b.WriteString(` LIMIT $` + strconv.Itoa(len(args)))
	}
	if q.Offset > 0 {
		args = append(args, q.Offset)
		b.WriteString(` OFFSET $` + strconv.Itoa(len(args)))
	}

	rows, err := r.db.Query(ctx, b.String(), args...)
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
	out, err := scanTask(r.db.QueryRow(ctx,
		`UPDATE tasks
		    SET description=$3, completed=$4, updated_at=now()
		  WHERE id=$1 AND owner_id=$2
		  RETURNING `+taskColumns,
		t.ID, t.OwnerID, t.Description, t.Completed,
	))
	if err != nil {
		return models.Task{}, translate(err)
	}
	return out, nil
}

func (r *tasksRepo) DeleteOwned(ctx context.Context, id, ownerID string) (models.Task, error) {
	t, err := scanTask(r.db.QueryRow(ctx,
		`DELETE FROM tasks WHERE id=$1 AND owner_id=$2 RETURNING `+taskColumns, id, ownerID,
	))
	if err != nil {
		return models.Task{}, translate(err)
	}
	return t, nil
}

func (r *tasksRepo) DeleteByOwner(ctx context.Context, ownerID string) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM tasks WHERE owner_id=$1`, ownerID)
	if err != nil {
		return 0, translate(err)
	}
	return tag.RowsAffected(), nil
}
