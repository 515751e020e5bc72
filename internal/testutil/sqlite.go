// Package testutil opens throwaway stores for tests.
package testutil

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/baharkarakas/taskmanager-backend/internal/db"
	repo "github.com/baharkarakas/taskmanager-backend/internal/repository"
	"github.com/baharkarakas/taskmanager-backend/internal/repository/sqlite"
)

// SQLite returns migrated repositories backed by a fresh database in a temp dir.
func SQLite(t testing.TB) (repo.Repositories, *sql.DB) {
	t.Helper()
	ctx := context.Background()

	conn, err := db.OpenSQLite(ctx, filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	require.NoError(t, db.RunSQLiteMigrations(ctx, conn))
	return sqlite.NewRepositories(conn), conn
}
