package postgres

import (
	"context"
	"errors"
	"fmt"

	repo "github.com/baharkarakas/taskmanager-backend/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// querier is the part of pgxpool.Pool and pgx.Tx the repositories use.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func NewRepositories(pool *pgxpool.Pool) repo.Repositories {
	return bind(pool, &transactor{pool: pool})
}

func bind(q querier, tx repo.Transactor) repo.Repositories {
	return repo.Repositories{
		Users:  &usersRepo{q},
		Tokens: &tokensRepo{q},
		Tasks:  &tasksRepo{q},
		Tx:     tx,
	}
}

type transactor struct{ pool *pgxpool.Pool }

func (t *transactor) WithTx(ctx context.Context, fn func(repo.Repositories) error) error {
	tx, err := t.pool.BeginTx(ctx, pgx.TxOptions{
		IsoLevel:   pgx.ReadCommitted,
		AccessMode: pgx.ReadWrite,
	})
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if err := fn(bind(tx, inTx{tx})); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	return tx.Commit(ctx)
}

// inTx reuses the open transaction for nested WithTx calls.
type inTx struct{ tx pgx.Tx }

func (t inTx) WithTx(ctx context.Context, fn func(repo.Repositories) error) error {
	return fn(bind(t.tx, t))
}

const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeInvalidText         = "22P02"
)

func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return repo.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeUniqueViolation:
			return repo.ErrDuplicate
		case codeForeignKeyViolation, codeInvalidText:
			// dangling owner or a malformed uuid: nothing can match either way
			return repo.ErrNotFound
		}
	}
	return fmt.Errorf("db error: %w", err)
}
