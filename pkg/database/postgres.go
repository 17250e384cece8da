package database

import (
	"context"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
)

func Connect(databaseURL string) (*sqlx.DB, error) {
	db, err := sqlx.Open("pgx", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// Migrate creates the application tables if they do not exist yet.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id         TEXT PRIMARY KEY,
			email      TEXT NOT NULL UNIQUE,
			password   TEXT NOT NULL,
			name       TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS notes (
			id            TEXT PRIMARY KEY,
			name          TEXT NOT NULL,
			subject       TEXT NOT NULL,
			branch        TEXT NOT NULL DEFAULT '',
			year          TEXT NOT NULL DEFAULT '',
			semester      TEXT NOT NULL DEFAULT '',
			unit          INTEGER NOT NULL DEFAULT 0,
			resource_type TEXT NOT NULL DEFAULT 'notes',
			download_url  TEXT NOT NULL DEFAULT '',
			downloads     INTEGER NOT NULL DEFAULT 0,
			feedback      JSONB NOT NULL DEFAULT '[]'::jsonb,
			created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_notes_downloads ON notes (downloads DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_notes_filter ON notes (subject, year, semester)`,
	}

	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
