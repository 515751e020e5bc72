// Package sqlite implements the repositories on an embedded SQLite database.
// It backs local development (APP_STORE=sqlite) and the test suite.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	repo "github.com/baharkarakas/taskmanager-backend/internal/repository"
	msqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func NewRepositories(db *sql.DB) repo.Repositories {
	return bind(db, &transactor{db: db})
}

func bind(db DBTX, tx repo.Transactor) repo.Repositories {
	return repo.Repositories{
		Users:  &usersRepo{db: db, now: now},
		Tokens: &tokensRepo{db: db},
		Tasks:  &tasksRepo{db: db, now: now},
		Tx:     tx,
	}
}

func now() time.Time { return time.Now().UTC() }

type transactor struct{ db *sql.DB }

func (t *transactor) WithTx(ctx context.Context, fn func(repo.Repositories) error) error {
	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if err := fn(bind(tx, inTx{tx})); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

type inTx struct{ tx *sql.Tx }

func (t inTx) WithTx(_ context.Context, fn func(repo.Repositories) error) error {
	return fn(bind(t.tx, t))
}

func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return repo.ErrNotFound
	}
	var se *msqlite.Error
	if errors.As(err, &se) {
		switch se.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return repo.ErrDuplicate
		case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
			return repo.ErrNotFound
		}
	}
	// primary result codes only carry the message
	msg := err.Error()
	switch {
	case strings.Contains(msg, "UNIQUE constraint failed"):
		return repo.ErrDuplicate
	case strings.Contains(msg, "FOREIGN KEY constraint failed"):
		return repo.ErrNotFound
	}
	return fmt.Errorf("db error: %w", err)
}

func affected(res sql.Result) (int64, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}
