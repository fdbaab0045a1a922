package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

func Migrate(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS templates (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			category TEXT NOT NULL DEFAULT '',
			kr_id TEXT,
			frequency_days INTEGER,
			frequency_times INTEGER,
			target_count INTEGER,
			accumulated_count INTEGER NOT NULL DEFAULT 0,
			subtasks TEXT,
			last_completed_at DATETIME,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE TABLE IF NOT EXISTS instances (
			id TEXT PRIMARY KEY,
			original_id TEXT,
			day INTEGER NOT NULL,
			time_slot TEXT,
			title TEXT NOT NULL,
			category TEXT NOT NULL DEFAULT '',
			kr_id TEXT,
			target_count INTEGER,
			accumulated_count INTEGER NOT NULL DEFAULT 0,
			completed INTEGER NOT NULL DEFAULT 0,
			subtasks TEXT,
			last_completed_at DATETIME,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE TABLE IF NOT EXISTS habits (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			category TEXT NOT NULL DEFAULT '',
			frequency_days INTEGER NOT NULL DEFAULT 1,
			frequency_times INTEGER NOT NULL DEFAULT 1,
			streak INTEGER NOT NULL DEFAULT 0,
			target_count INTEGER NOT NULL DEFAULT 1,
			accumulated_count INTEGER NOT NULL DEFAULT 0,
			kr_id TEXT,
			icon_name TEXT NOT NULL DEFAULT 'Star',
			color TEXT NOT NULL DEFAULT '#0ea5e9',
			completed_today INTEGER NOT NULL DEFAULT 0,
			last_completed_at DATETIME,
			hour_marks TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE TABLE IF NOT EXISTS goals (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			category TEXT NOT NULL DEFAULT '',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE TABLE IF NOT EXISTS key_results (
			id TEXT PRIMARY KEY,
			goal_id TEXT NOT NULL,
			title TEXT NOT NULL,
			progress INTEGER NOT NULL DEFAULT 0,
			position INTEGER NOT NULL DEFAULT 0,
			FOREIGN KEY(goal_id) REFERENCES goals(id)
		);`,
		`CREATE TABLE IF NOT EXISTS days (
			date INTEGER PRIMARY KEY,
			weekday TEXT NOT NULL DEFAULT '',
			full_date TEXT NOT NULL DEFAULT '',
			reflection TEXT
		);`,
		`CREATE TABLE IF NOT EXISTS day_scores (
			day INTEGER NOT NULL,
			definition_id TEXT NOT NULL,
			value INTEGER NOT NULL,
			PRIMARY KEY (day, definition_id)
		);`,
		`CREATE TABLE IF NOT EXISTS score_defs (
			id TEXT PRIMARY KEY,
			label TEXT NOT NULL,
			labels TEXT
		);`,
		`CREATE INDEX IF NOT EXISTS idx_instances_day ON instances(day);`,
		`CREATE INDEX IF NOT EXISTS idx_instances_original_id ON instances(original_id);`,
		`CREATE INDEX IF NOT EXISTS idx_key_results_goal_id ON key_results(goal_id);`,
	}

	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	// Additive columns for databases created before these fields existed.
	alterStmts := []string{
		`ALTER TABLE habits ADD COLUMN hour_marks TEXT;`,
		`ALTER TABLE instances ADD COLUMN last_completed_at DATETIME;`,
	}
	for _, stmt := range alterStmts {
		_, err := db.ExecContext(ctx, stmt)
		if err != nil && !strings.Contains(err.Error(), "duplicate column") {
			return fmt.Errorf("migrate alter: %w", err)
		}
	}

	return nil
}

// Wipe deletes every row from every table. Used by snapshot import.
func Wipe(ctx context.Context, q DBTX) error {
	tables := []string{
		"templates", "instances", "habits",
		"goals", "key_results",
		"days", "day_scores", "score_defs",
	}
	for _, table := range tables {
		if _, err := q.ExecContext(ctx, `DELETE FROM `+table); err != nil {
			return fmt.Errorf("wipe %s: %w", table, err)
		}
	}
	return nil
}
