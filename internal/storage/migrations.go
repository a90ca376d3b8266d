package storage

import (
	"database/sql"
	"fmt"
	"time"
)

// Migration represents a database migration.
type Migration struct {
	Version int
	Name    string
	Up      string
}

// migrations holds all database migrations in order.
var migrations = []Migration{
	{
		Version: 1,
		Name:    "initial_schema",
		Up: `
			-- Users table
			CREATE TABLE IF NOT EXISTS users (
				id TEXT PRIMARY KEY,
				username TEXT UNIQUE NOT NULL,
				email TEXT UNIQUE NOT NULL,
				first_name TEXT NOT NULL DEFAULT '',
				last_name TEXT NOT NULL DEFAULT '',
				password_hash TEXT NOT NULL,
				created_at DATETIME NOT NULL,
				updated_at DATETIME NOT NULL
			);

			-- Co-founder profiles (one per user)
			CREATE TABLE IF NOT EXISTS profiles (
				user_id TEXT PRIMARY KEY,
				skills_json TEXT NOT NULL DEFAULT '[]',
				looking_for_json TEXT NOT NULL DEFAULT '[]',
				availability TEXT,
				experience_level TEXT,
				bio TEXT,
				seeking_cofounder INTEGER NOT NULL DEFAULT 0,
				created_at DATETIME NOT NULL,
				updated_at DATETIME NOT NULL,
				FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
			);

			-- Ideas table
			CREATE TABLE IF NOT EXISTS ideas (
				id TEXT PRIMARY KEY,
				user_id TEXT NOT NULL,
				title TEXT NOT NULL,
				problem TEXT NOT NULL DEFAULT '',
				solution TEXT NOT NULL DEFAULT '',
				tags_json TEXT NOT NULL DEFAULT '[]',
				category TEXT NOT NULL DEFAULT '',
				stage TEXT NOT NULL DEFAULT '',
				looking_for_cofounder INTEGER NOT NULL DEFAULT 0,
				cofounder_skills_json TEXT NOT NULL DEFAULT '[]',
				cofounder_roles_json TEXT NOT NULL DEFAULT '[]',
				cofounder_experience_level TEXT,
				cofounder_time_commitment TEXT,
				created_at DATETIME NOT NULL,
				updated_at DATETIME NOT NULL,
				FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
			);

			-- Connection requests
			CREATE TABLE IF NOT EXISTS connections (
				id TEXT PRIMARY KEY,
				requester_id TEXT NOT NULL,
				recipient_id TEXT NOT NULL,
				idea_id TEXT,
				status TEXT NOT NULL DEFAULT 'pending',
				message TEXT NOT NULL,
				rejection_reason TEXT,
				created_at DATETIME NOT NULL,
				updated_at DATETIME NOT NULL,
				FOREIGN KEY (requester_id) REFERENCES users(id) ON DELETE CASCADE,
				FOREIGN KEY (recipient_id) REFERENCES users(id) ON DELETE CASCADE,
				FOREIGN KEY (idea_id) REFERENCES ideas(id) ON DELETE SET NULL
			);

			-- In-app notifications
			CREATE TABLE IF NOT EXISTS notifications (
				id TEXT PRIMARY KEY,
				user_id TEXT NOT NULL,
				type TEXT NOT NULL,
				connection_id TEXT,
				idea_id TEXT,
				actor_name TEXT NOT NULL DEFAULT '',
				idea_title TEXT,
				message TEXT,
				read INTEGER NOT NULL DEFAULT 0,
				seen_at DATETIME,
				created_at DATETIME NOT NULL,
				FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
			);

			-- Indexes
			CREATE INDEX IF NOT EXISTS idx_users_username ON users(username);
			CREATE INDEX IF NOT EXISTS idx_users_email ON users(email);
			CREATE INDEX IF NOT EXISTS idx_ideas_user ON ideas(user_id);
			CREATE UNIQUE INDEX IF NOT EXISTS idx_connections_pair ON connections(requester_id, recipient_id);
			CREATE INDEX IF NOT EXISTS idx_connections_recipient ON connections(recipient_id);
			CREATE INDEX IF NOT EXISTS idx_connections_idea ON connections(idea_id);
			CREATE INDEX IF NOT EXISTS idx_notifications_user ON notifications(user_id, created_at);
			CREATE INDEX IF NOT EXISTS idx_notifications_seen ON notifications(user_id, seen_at);
		`,
	},
}

// runMigrations applies all pending migrations.
func runMigrations(db *sql.DB) error {
	// Create migrations table if not exists
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at DATETIME NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("create migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	err = db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("get current version: %w", err)
	}

	// Apply pending migrations
	for _, m := range migrations {
		if m.Version <= currentVersion {
			continue
		}

		// Run migration in transaction
		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("begin transaction for migration %d: %w", m.Version, err)
		}

		_, err = tx.Exec(m.Up)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("execute migration %d (%s): %w", m.Version, m.Name, err)
		}

		_, err = tx.Exec(
			"INSERT INTO schema_migrations (version, name, applied_at) VALUES (?, ?, ?)",
			m.Version, m.Name, time.Now(),
		)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("record migration %d: %w", m.Version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %d: %w", m.Version, err)
		}
	}

	return nil
}
