package database

import (
	"context"

	"github.com/kaleabteweld/Agelgil-primer-healthy-recipe-hub-backend-sub000/internal/types"
)

// migrations are applied in order; each entry runs at most once, tracked by
// the schema_migrations table.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id                  TEXT PRIMARY KEY,
		email               TEXT NOT NULL UNIQUE,
		first_name          TEXT NOT NULL,
		last_name           TEXT NOT NULL DEFAULT '',
		avatar              TEXT NOT NULL DEFAULT '',
		chronic_diseases    TEXT NOT NULL DEFAULT '[]',
		dietary_preferences TEXT NOT NULL DEFAULT '[]',
		allergies           TEXT NOT NULL DEFAULT '[]',
		booked_recipes      TEXT NOT NULL DEFAULT '[]',
		created_at          TIMESTAMP NOT NULL,
		updated_at          TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS recipes (
		id                   TEXT PRIMARY KEY,
		name                 TEXT NOT NULL,
		description          TEXT NOT NULL DEFAULT '',
		images               TEXT NOT NULL DEFAULT '[]',
		ingredients          TEXT NOT NULL DEFAULT '[]',
		preferred_meal_times TEXT NOT NULL DEFAULT '[]',
		difficulty           TEXT NOT NULL DEFAULT '',
		cooking_time         INTEGER NOT NULL DEFAULT 0,
		rating               REAL NOT NULL DEFAULT 0,
		review_count         INTEGER NOT NULL DEFAULT 0,
		status               TEXT NOT NULL DEFAULT 'pending',
		moderator_note       TEXT NOT NULL DEFAULT '',
		user_id              TEXT NOT NULL,
		user_name            TEXT NOT NULL DEFAULT '',
		user_avatar          TEXT NOT NULL DEFAULT '',
		chronic_diseases     TEXT NOT NULL DEFAULT '[]',
		dietary_preferences  TEXT NOT NULL DEFAULT '[]',
		allergies            TEXT NOT NULL DEFAULT '[]',
		created_at           TIMESTAMP NOT NULL,
		updated_at           TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS reviews (
		id          TEXT PRIMARY KEY,
		recipe_id   TEXT NOT NULL REFERENCES recipes(id) ON DELETE CASCADE,
		user_id     TEXT NOT NULL,
		user_name   TEXT NOT NULL DEFAULT '',
		user_avatar TEXT NOT NULL DEFAULT '',
		rating      INTEGER NOT NULL CHECK (rating BETWEEN 1 AND 5),
		comment     TEXT NOT NULL DEFAULT '',
		created_at  TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS ingredients (
		id             TEXT PRIMARY KEY,
		name           TEXT NOT NULL,
		localized_name TEXT NOT NULL DEFAULT '',
		type           TEXT NOT NULL DEFAULT '',
		unit           TEXT NOT NULL DEFAULT '',
		created_at     TIMESTAMP NOT NULL,
		updated_at     TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_recipes_status ON recipes(status)`,
	`CREATE INDEX IF NOT EXISTS idx_recipes_user ON recipes(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_reviews_recipe ON reviews(recipe_id)`,
	`CREATE INDEX IF NOT EXISTS idx_reviews_user ON reviews(user_id)`,
}

// migrate applies pending migrations inside a transaction per step.
func (db *DB) migrate(ctx context.Context) error {
	_, err := db.conn.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		version    INTEGER PRIMARY KEY,
		applied_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`)
	if err != nil {
		return types.WrapError(types.DB_MIGRATION_FAILED,
			"failed to create schema_migrations table", err)
	}

	var current int
	err = db.conn.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(version), 0) FROM schema_migrations`).Scan(&current)
	if err != nil {
		return types.WrapError(types.DB_MIGRATION_FAILED,
			"failed to read migration version", err)
	}

	for i := current; i < len(migrations); i++ {
		tx, err := db.conn.BeginTx(ctx, nil)
		if err != nil {
			return types.WrapError(types.DB_MIGRATION_FAILED,
				"failed to begin migration transaction", err)
		}

		if _, err := tx.ExecContext(ctx, migrations[i]); err != nil {
			tx.Rollback()
			return types.WrapError(types.DB_MIGRATION_FAILED,
				"migration step failed", err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO schema_migrations (version) VALUES (?)`, i+1); err != nil {
			tx.Rollback()
			return types.WrapError(types.DB_MIGRATION_FAILED,
				"failed to record migration version", err)
		}
		if err := tx.Commit(); err != nil {
			return types.WrapError(types.DB_MIGRATION_FAILED,
				"failed to commit migration", err)
		}
	}

	return nil
}
