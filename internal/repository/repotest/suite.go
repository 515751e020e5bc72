// Package repotest holds behaviour tests shared by every repository backend.
package repotest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baharkarakas/taskmanager-backend/internal/models"
	repo "github.com/baharkarakas/taskmanager-backend/internal/repository"
)

// Factory returns repositories over an empty, migrated store.
type Factory func(t *testing.T) repo.Repositories

func Run(t *testing.T, newRepos Factory) {
	t.Run("Users", func(t *testing.T) { testUsers(t, newRepos(t)) })
	t.Run("Avatar", func(t *testing.T) { testAvatar(t, newRepos(t)) })
	t.Run("Tokens", func(t *testing.T) { testTokens(t, newRepos(t)) })
	t.Run("Tasks", func(t *testing.T) { testTasks(t, newRepos(t)) })
	t.Run("TaskListing", func(t *testing.T) { testTaskListing(t, newRepos(t)) })
	t.Run("Tx", func(t *testing.T) { testTx(t, newRepos(t)) })
}

func mkUser(t *testing.T, r repo.Repositories, email string) models.User {
	t.Helper()
	u, err := r.Users.Create(context.Background(), models.User{Name: "User " + email, Email: email, PasswordHash: "hash", Age: 30})
	require.NoError(t, err)
	return u
}

func testUsers(t *testing.T, r repo.Repositories) {
	ctx := context.Background()
	u := mkUser(t, r, "ann@example.com")
	assert.NotEmpty(t, u.ID)
	assert.False(t, u.CreatedAt.IsZero())

	_, err := r.Users.Create(ctx, models.User{Name: "Dup", Email: "ann@example.com", PasswordHash: "x"})
	require.ErrorIs(t, err, repo.ErrDuplicate)

	got, err := r.Users.GetByEmail(ctx, "ann@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, "hash", got.PasswordHash)

	_, err = r.Users.GetByEmail(ctx, "nobody@example.com")
	require.ErrorIs(t, err, repo.ErrNotFound)
	_, err = r.Users.GetByID(ctx, uuid.NewString())
	require.ErrorIs(t, err, repo.ErrNotFound)
	_, err = r.Users.GetByID(ctx, "not-a-uuid")
	require.ErrorIs(t, err, repo.ErrNotFound)

	got.Name, got.Age = "Ann B", 31
	upd, err := r.Users.Update(ctx, got)
	require.NoError(t, err)
	assert.Equal(t, "Ann B", upd.Name)
	assert.Equal(t, 31, upd.Age)
	assert.False(t, upd.UpdatedAt.Before(u.UpdatedAt))

	other := mkUser(t, r, "bob@example.com")
	other.Email = "ann@example.com"
	_, err = r.Users.Update(ctx, other)
	require.ErrorIs(t, err, repo.ErrDuplicate)

	require.NoError(t, r.Users.Delete(ctx, u.ID))
	require.ErrorIs(t, r.Users.Delete(ctx, u.ID), repo.ErrNotFound)
}

func testAvatar(t *testing.T, r repo.Repositories) {
	ctx := context.Background()
	u := mkUser(t, r, "ann@example.com")

	_, _, err := r.Users.GetAvatar(ctx, u.ID)
	require.ErrorIs(t, err, repo.ErrNotFound)

	require.NoError(t, r.Users.SetAvatar(ctx, u.ID, []byte{1, 2, 3}, "image/png"))
	data, ct, err := r.Users.GetAvatar(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, data)
	assert.Equal(t, "image/png", ct)

	require.NoError(t, r.Users.SetAvatar(ctx, u.ID, nil, ""))
	_, _, err = r.Users.GetAvatar(ctx, u.ID)
	require.ErrorIs(t, err, repo.ErrNotFound)

	require.ErrorIs(t, r.Users.SetAvatar(ctx, uuid.NewString(), []byte{1}, "image/png"), repo.ErrNotFound)
}

func testTokens(t *testing.T, r repo.Repositories) {
	ctx := context.Background()
	u := mkUser(t, r, "ann@example.com")
	now := time.Now().UTC().Truncate(time.Millisecond)

	add := func(tok string, exp time.Time) {
		require.NoError(t, r.Tokens.Add(ctx, models.Token{UserID: u.ID, Token: tok, CreatedAt: now, ExpiresAt: exp}))
	}
	add("t1", now.Add(-time.Minute))
	add("t2", now.Add(time.Hour))
	add("t3", now.Add(time.Hour))
	add("t4", now.Add(time.Hour))

	list, err := r.Tokens.List(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, list, 4)
	for i, want := range []string{"t1", "t2", "t3", "t4"} {
		assert.Equal(t, want, list[i].Token)
	}

	ok, err := r.Tokens.Exists(ctx, u.ID, "t2", now)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = r.Tokens.Exists(ctx, u.ID, "t1", now)
	require.NoError(t, err)
	assert.False(t, ok, "expired token must not authenticate")
	ok, err = r.Tokens.Exists(ctx, uuid.NewString(), "t2", now)
	require.NoError(t, err)
	assert.False(t, ok)

	n, err := r.Tokens.PruneExpired(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	require.NoError(t, r.Tokens.TrimTo(ctx, u.ID, 2))
	list, err = r.Tokens.List(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "t3", list[0].Token)
	assert.Equal(t, "t4", list[1].Token)

	require.NoError(t, r.Tokens.Remove(ctx, u.ID, "t3"))
	list, err = r.Tokens.List(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, r.Tokens.RemoveAll(ctx, u.ID))
	list, err = r.Tokens.List(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, list)

	add("t5", now.Add(time.Hour))
	require.NoError(t, r.Users.Delete(ctx, u.ID))
	list, err = r.Tokens.List(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, list, "tokens follow their user")
}

func testTasks(t *testing.T, r repo.Repositories) {
	ctx := context.Background()
	owner := mkUser(t, r, "ann@example.com")
	other := mkUser(t, r, "bob@example.com")

	_, err := r.Tasks.Create(ctx, models.Task{Description: "orphan", OwnerID: uuid.NewString()})
	require.ErrorIs(t, err, repo.ErrNotFound)

	task, err := r.Tasks.Create(ctx, models.Task{Description: "write code", OwnerID: owner.ID})
	require.NoError(t, err)
	assert.NotEmpty(t, task.ID)

	_, err = r.Tasks.GetOwned(ctx, task.ID, other.ID)
	require.ErrorIs(t, err, repo.ErrNotFound)
	_, err = r.Tasks.GetOwned(ctx, "not-a-uuid", owner.ID)
	require.ErrorIs(t, err, repo.ErrNotFound)

	task.Completed = true
	foreign := task
	foreign.OwnerID = other.ID
	_, err = r.Tasks.UpdateOwned(ctx, foreign)
	require.ErrorIs(t, err, repo.ErrNotFound)

	upd, err := r.Tasks.UpdateOwned(ctx, task)
	require.NoError(t, err)
	assert.True(t, upd.Completed)

	_, err = r.Tasks.DeleteOwned(ctx, task.ID, other.ID)
	require.ErrorIs(t, err, repo.ErrNotFound)
	del, err := r.Tasks.DeleteOwned(ctx, task.ID, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, task.ID, del.ID)

	for _, d := range []string{"a", "b"} {
		_, err := r.Tasks.Create(ctx, models.Task{Description: d, OwnerID: owner.ID})
		require.NoError(t, err)
	}
	_, err = r.Tasks.Create(ctx, models.Task{Description: "keep", OwnerID: other.ID})
	require.NoError(t, err)

	n, err := r.Tasks.DeleteByOwner(ctx, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	left, err := r.Tasks.ListOwned(ctx, other.ID, models.TaskQuery{})
	require.NoError(t, err)
	assert.Len(t, left, 1)
}

func testTaskListing(t *testing.T, r repo.Repositories) {
	ctx := context.Background()
	u := mkUser(t, r, "ann@example.com")
	for _, in := range []struct {
		d    string
		done bool
	}{{"c", false}, {"a", true}, {"b", false}, {"d", true}} {
		_, err := r.Tasks.Create(ctx, models.Task{Description: in.d, Completed: in.done, OwnerID: u.ID})
		require.NoError(t, err)
	}

	descs := func(q models.TaskQuery) []string {
		ts, err := r.Tasks.ListOwned(ctx, u.ID, q)
		require.NoError(t, err)
		out := []string{}
		for _, task := range ts {
			out = append(out, task.Description)
		}
		return out
	}
	yes, no := true, false

	assert.Equal(t, []string{"c", "a", "b", "d"}, descs(models.TaskQuery{}))
	assert.Equal(t, []string{"a", "d"}, descs(models.TaskQuery{Completed: &yes}))
	assert.Equal(t, []string{"c", "b"}, descs(models.TaskQuery{Completed: &no}))
	assert.Equal(t, []string{"d", "c", "b", "a"}, descs(models.TaskQuery{SortBy: models.TaskSortDescription, Desc: true}))
	assert.Equal(t, []string{"b", "c"}, descs(models.TaskQuery{SortBy: models.TaskSortDescription, Limit: 2, Offset: 1}))
	assert.Equal(t, []string{"b", "d"}, descs(models.TaskQuery{Offset: 2}))
	assert.Equal(t, []string{"d", "b", "a", "c"}, descs(models.TaskQuery{Desc: true}))
}

var errBoom = errors.New("boom")

func testTx(t *testing.T, r repo.Repositories) {
	ctx := context.Background()
	u := mkUser(t, r, "ann@example.com")
	_, err := r.Tasks.Create(ctx, models.Task{Description: "x", OwnerID: u.ID})
	require.NoError(t, err)

	err = r.Tx.WithTx(ctx, func(tx repo.Repositories) error {
		if _, err := tx.Tasks.DeleteByOwner(ctx, u.ID); err != nil {
			return err
		}
		if err := tx.Users.Delete(ctx, u.ID); err != nil {
			return err
		}
		return errBoom
	})
	require.ErrorIs(t, err, errBoom)

	_, err = r.Users.GetByID(ctx, u.ID)
	require.NoError(t, err, "rolled back delete must leave the user")
	ts, err := r.Tasks.ListOwned(ctx, u.ID, models.TaskQuery{})
	require.NoError(t, err)
	assert.Len(t, ts, 1)

	err = r.Tx.WithTx(ctx, func(tx repo.Repositories) error {
		if _, err := tx.Tasks.DeleteByOwner(ctx, u.ID); err != nil {
			return err
		}
		return tx.Users.Delete(ctx, u.ID)
	})
	require.NoError(t, err)
	_, err = r.Users.GetByID(ctx, u.ID)
	require.ErrorIs(t, err, repo.ErrNotFound)
}
