package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// EnsureSchema creates the three tables the service needs. Idempotent, run
// once at startup before the server takes traffic.
//
// grid_selections is append-only: the rolling selection cap is computed by
// counting rows inside the trailing window, never by resetting anything.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			email         TEXT PRIMARY KEY,
			password_hash TEXT NOT NULL,
			created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS game_grids (
			email      TEXT PRIMARY KEY REFERENCES users(email),
			cells      JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS grid_selections (
			id         UUID PRIMARY KEY,
			email      TEXT NOT NULL REFERENCES game_grids(email),
			row_idx    INT NOT NULL,
			col_idx    INT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS grid_selections_email_created_at_idx
			ON grid_selections (email, created_at)`,
	}

	for _, stmt := range stmts {
		_, err := pool.Exec(ctx, stmt)

		if err != nil {
			return err
		}
	}

	return nil
}
