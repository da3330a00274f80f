package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"
)

// migrations is the ordered upgrade path for the advance-sheet schema.
// Applied versions are tracked in schema_migrations, so each entry runs
// exactly once per database; append new entries, never edit old ones.
var migrations = []struct {
	version int
	name    string
	stmts   []string
}{
	{
		version: 1,
		name:    "base schema",
		stmts: []string{
			`CREATE TABLE IF NOT EXISTS users (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				username TEXT UNIQUE NOT NULL,
				password_hash TEXT NOT NULL,
				display_name TEXT,
				role TEXT DEFAULT 'user',
				created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
			)`,
			`CREATE TABLE IF NOT EXISTS shows (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				name TEXT NOT NULL,
				show_date TEXT,
				show_time TEXT DEFAULT '',
				venue TEXT DEFAULT '',
				status TEXT DEFAULT 'active',
				advance_version INTEGER DEFAULT 0,
				schedule_version INTEGER DEFAULT 0,
				created_by INTEGER REFERENCES users(id),
				created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
			)`,
			`CREATE TABLE IF NOT EXISTS advance_data (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				show_id INTEGER NOT NULL REFERENCES shows(id) ON DELETE CASCADE,
				field_key TEXT NOT NULL,
				field_value TEXT DEFAULT '',
				updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
				UNIQUE(show_id, field_key)
			)`,
			`CREATE TABLE IF NOT EXISTS schedule_rows (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				show_id INTEGER NOT NULL REFERENCES shows(id) ON DELETE CASCADE,
				sort_order INTEGER DEFAULT 0,
				start_time TEXT DEFAULT '',
				end_time TEXT DEFAULT '',
				description TEXT DEFAULT '',
				notes TEXT DEFAULT ''
			)`,
			`CREATE TABLE IF NOT EXISTS schedule_meta (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				show_id INTEGER NOT NULL REFERENCES shows(id) ON DELETE CASCADE,
				field_key TEXT NOT NULL,
				field_value TEXT DEFAULT '',
				UNIQUE(show_id, field_key)
			)`,
			`CREATE TABLE IF NOT EXISTS post_show_notes (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				show_id INTEGER NOT NULL REFERENCES shows(id) ON DELETE CASCADE,
				field_key TEXT NOT NULL,
				field_value TEXT DEFAULT '',
				UNIQUE(show_id, field_key)
			)`,
			`CREATE TABLE IF NOT EXISTS contacts (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				name TEXT NOT NULL,
				title TEXT DEFAULT '',
				department TEXT DEFAULT '',
				phone TEXT DEFAULT '',
				email TEXT DEFAULT '',
				sort_order INTEGER DEFAULT 0,
				created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
			)`,
			`CREATE TABLE IF NOT EXISTS export_log (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				show_id INTEGER REFERENCES shows(id) ON DELETE SET NULL,
				export_type TEXT,
				version INTEGER,
				exported_by INTEGER REFERENCES users(id),
				exported_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
				filename TEXT DEFAULT ''
			)`,
			`CREATE TABLE IF NOT EXISTS form_history (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				show_id INTEGER NOT NULL REFERENCES shows(id) ON DELETE CASCADE,
				form_type TEXT NOT NULL,
				saved_by INTEGER REFERENCES users(id) ON DELETE SET NULL,
				saved_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
				snapshot_json TEXT NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS user_groups (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				name TEXT UNIQUE NOT NULL,
				group_type TEXT NOT NULL DEFAULT 'all_access',
				description TEXT DEFAULT ''
			)`,
			`CREATE TABLE IF NOT EXISTS user_group_members (
				user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
				group_id INTEGER NOT NULL REFERENCES user_groups(id) ON DELETE CASCADE,
				PRIMARY KEY (user_id, group_id)
			)`,
			`CREATE TABLE IF NOT EXISTS show_group_access (
				show_id INTEGER NOT NULL REFERENCES shows(id) ON DELETE CASCADE,
				group_id INTEGER NOT NULL REFERENCES user_groups(id) ON DELETE CASCADE,
				PRIMARY KEY (show_id, group_id)
			)`,
			`CREATE TABLE IF NOT EXISTS app_settings (
				key TEXT PRIMARY KEY,
				value TEXT DEFAULT ''
			)`,
			`CREATE TABLE IF NOT EXISTS active_sessions (
				user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
				show_id INTEGER NOT NULL REFERENCES shows(id) ON DELETE CASCADE,
				tab TEXT NOT NULL DEFAULT 'advance',
				focused_field TEXT,
				last_seen TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
				PRIMARY KEY (user_id, show_id)
			)`,
			`CREATE TABLE IF NOT EXISTS show_comments (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				show_id INTEGER NOT NULL REFERENCES shows(id) ON DELETE CASCADE,
				user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
				body TEXT NOT NULL,
				created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
			)`,
			`CREATE TABLE IF NOT EXISTS show_attachments (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				show_id INTEGER NOT NULL REFERENCES shows(id) ON DELETE CASCADE,
				uploaded_by INTEGER REFERENCES users(id) ON DELETE SET NULL,
				filename TEXT NOT NULL,
				mime_type TEXT DEFAULT 'application/octet-stream',
				file_data BLOB NOT NULL,
				file_size INTEGER DEFAULT 0,
				created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
			)`,
		},
	},
	{
		version: 2,
		name:    "last-saved stamps on shows",
		stmts: []string{
			`ALTER TABLE shows ADD COLUMN last_saved_by INTEGER REFERENCES users(id)`,
			`ALTER TABLE shows ADD COLUMN last_saved_at TIMESTAMP`,
		},
	},
	{
		version: 3,
		name:    "history and sync lookup indexes",
		stmts: []string{
			`CREATE INDEX IF NOT EXISTS idx_form_history_show_type ON form_history(show_id, form_type, saved_at)`,
			`CREATE INDEX IF NOT EXISTS idx_advance_data_updated ON advance_data(show_id, updated_at)`,
		},
	},
}

// Migrate brings the database up to the latest schema version.  Each
// pending migration runs inside its own transaction together with the
// schema_migrations bookkeeping row.
func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		version INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	var current int
	if err := db.QueryRowContext(ctx, `SELECT COALESCE(MAX(version), 0) FROM schema_migrations`).Scan(&current); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		if err := applyMigration(ctx, db, m.version, m.name, m.stmts); err != nil {
			return fmt.Errorf("migration %d (%s): %w", m.version, m.name, err)
		}
		log.Printf("database: applied migration %d (%s)", m.version, m.name)
	}
	return nil
}

func applyMigration(ctx context.Context, db *sql.DB, version int, name string, stmts []string) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO schema_migrations (version, name) VALUES (?, ?)`, version, name); err != nil {
		return err
	}
	return tx.Commit()
}
