package services

import (
	"context"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baharkarakas/taskmanager-backend/internal/models"
)

func TestTaskCreate(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	u, _ := signup(t, f, "Mike", "mike@example.com")
	other, _ := signup(t, f, "Ann", "ann@example.com")

	task, err := f.tasks.Create(ctx, u.ID, raw(t, map[string]string{
		"description": `" From my test "`,
		"owner":       `"` + other.ID + `"`,
	}))
	require.NoError(t, err)
	assert.Equal(t, "From my test", task.Description)
	assert.False(t, task.Completed)
	assert.Equal(t, u.ID, task.OwnerID)

	_, err = f.tasks.Create(ctx, u.ID, raw(t, map[string]string{"description": `"  "`}))
	require.ErrorIs(t, err, ErrValidation)
	_, err = f.tasks.Create(ctx, u.ID, raw(t, map[string]string{"description": `"x"`, "completed": `"yes"`}))
	require.ErrorIs(t, err, ErrValidation)
}

func TestTaskOwnership(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	owner, _ := signup(t, f, "Mike", "mike@example.com")
	intruder, _ := signup(t, f, "Ann", "ann@example.com")

	task, err := f.tasks.Create(ctx, owner.ID, raw(t, map[string]string{"description": `"first task"`}))
	require.NoError(t, err)

	_, err = f.tasks.Get(ctx, intruder.ID, task.ID)
	require.ErrorIs(t, err, ErrNotFound)
	_, err = f.tasks.Update(ctx, intruder.ID, task.ID, raw(t, map[string]string{"completed": `true`}))
	require.ErrorIs(t, err, ErrNotFound)
	_, err = f.tasks.Delete(ctx, intruder.ID, task.ID)
	require.ErrorIs(t, err, ErrNotFound)

	still, err := f.tasks.Get(ctx, owner.ID, task.ID)
	require.NoError(t, err)
	assert.False(t, still.Completed)

	_, err = f.tasks.Get(ctx, owner.ID, "not-a-uuid")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestTaskUpdateAndDelete(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	u, _ := signup(t, f, "Mike", "mike@example.com")
	task, err := f.tasks.Create(ctx, u.ID, raw(t, map[string]string{"description": `"write tests"`}))
	require.NoError(t, err)

	_, err = f.tasks.Update(ctx, u.ID, task.ID, raw(t, map[string]string{"owner": `"someone"`}))
	require.ErrorIs(t, err, ErrInvalidOperation)
	_, err = f.tasks.Update(ctx, u.ID, task.ID, raw(t, map[string]string{"description": `""`}))
	require.ErrorIs(t, err, ErrValidation)

	updated, err := f.tasks.Update(ctx, u.ID, task.ID, raw(t, map[string]string{"completed": `true`}))
	require.NoError(t, err)
	assert.True(t, updated.Completed)
	assert.Equal(t, "write tests", updated.Description)
	assert.False(t, updated.UpdatedAt.Before(task.UpdatedAt))

	deleted, err := f.tasks.Delete(ctx, u.ID, task.ID)
	require.NoError(t, err)
	assert.Equal(t, task.ID, deleted.ID)
	_, err = f.tasks.Get(ctx, u.ID, task.ID)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestTaskList(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	u, _ := signup(t, f, "Mike", "mike@example.com")
	other, _ := signup(t, f, "Ann", "ann@example.com")

	for _, in := range []struct{ d, c string }{{"b", "false"}, {"a", "true"}, {"c", "false"}} {
		_, err := f.tasks.Create(ctx, u.ID, raw(t, map[string]string{"description": `"` + in.d + `"`, "completed": in.c}))
		require.NoError(t, err)
	}
	_, err := f.tasks.Create(ctx, other.ID, raw(t, map[string]string{"description": `"foreign"`}))
	require.NoError(t, err)

	descs := func(ts []models.Task) []string {
		out := make([]string, 0, len(ts))
		for _, task := range ts {
			out = append(out, task.Description)
		}
		return out
	}
	list := func(qs string) []string {
		v, err := url.ParseQuery(qs)
		require.NoError(t, err)
		q, err := ParseTaskQuery(v)
		require.NoError(t, err)
		ts, err := f.tasks.List(ctx, u.ID, q)
		require.NoError(t, err)
		return descs(ts)
	}

	assert.Equal(t, []string{"b", "a", "c"}, list(""))
	assert.Equal(t, []string{"b", "c"}, list("completed=false"))
	assert.Equal(t, []string{"a"}, list("completed=true"))
	assert.Equal(t, []string{"c", "b", "a"}, list("sortBy=description:desc"))
	assert.Equal(t, []string{"a", "b"}, list("sortBy=description:asc&limit=2"))
	assert.Equal(t, []string{"c"}, list("sortBy=description&skip=2"))
	assert.Equal(t, []string{"a", "c"}, list("offset=1"))

	empty, err := f.tasks.List(ctx, "nobody", models.TaskQuery{})
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestParseTaskQuery(t *testing.T) {
	t.Parallel()

	tests := []struct {
		qs      string
		want    models.TaskQuery
		wantErr bool
	}{
		{qs: "", want: models.TaskQuery{SortBy: models.TaskSortCreatedAt}},
		{qs: "limit=500", want: models.TaskQuery{SortBy: models.TaskSortCreatedAt, Limit: 100}},
		{qs: "skip=5", want: models.TaskQuery{SortBy: models.TaskSortCreatedAt, Offset: 5}},
		{qs: "offset=3&skip=5", want: models.TaskQuery{SortBy: models.TaskSortCreatedAt, Offset: 3}},
		{qs: "sortBy=updatedAt:DESC", want: models.TaskQuery{SortBy: models.TaskSortUpdatedAt, Desc: true}},
		{qs: "sortBy=completed", want: models.TaskQuery{SortBy: models.TaskSortCompleted}},
		{qs: "completed=maybe", wantErr: true},
		{qs: "limit=-1", wantErr: true},
		{qs: "limit=ten", wantErr: true},
		{qs: "skip=-2", wantErr: true},
		{qs: "sortBy=owner:asc", wantErr: true},
		{qs: "sortBy=createdAt:sideways", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.qs, func(t *testing.T) {
			v, err := url.ParseQuery(tt.qs)
			require.NoError(t, err)
			got, err := ParseTaskQuery(v)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
