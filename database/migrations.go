package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Migration represents a database migration
type Migration struct {
	Version     int
	Description string
	Up          string
	Down        string
}

// GetMigrations returns all database migrations in order
func GetMigrations() []Migration {
	return []Migration{
		{
			Version:     1,
			Description: "Create export_history table",
			Up: `
				CREATE TABLE IF NOT EXISTS export_history (
					id TEXT PRIMARY KEY,
					file_name TEXT NOT NULL,
					format TEXT NOT NULL,
					size_bytes INTEGER NOT NULL DEFAULT 0,
					checksum TEXT NOT NULL DEFAULT '',
					record_count INTEGER NOT NULL DEFAULT 0,
					user TEXT NOT NULL DEFAULT '',
					description TEXT NOT NULL DEFAULT '',
					created_at INTEGER NOT NULL
				);

				CREATE INDEX IF NOT EXISTS idx_export_history_created ON export_history(created_at);
			`,
			Down: `
				DROP INDEX IF EXISTS idx_export_history_created;
				DROP TABLE IF EXISTS export_history;
			`,
		},
		{
			Version:     2,
			Description: "Create filter_presets table",
			Up: `
				CREATE TABLE IF NOT EXISTS filter_presets (
					id TEXT PRIMARY KEY,
					name TEXT NOT NULL,
					filters TEXT NOT NULL,
					created_at INTEGER NOT NULL,
					UNIQUE(name)
				);
			`,
			Down: `
				DROP TABLE IF EXISTS filter_presets;
			`,
		},
	}
}

// InitDB initializes the application database and runs migrations.
// SQLite still returns SQLITE_BUSY under WAL on Windows, so the open is
// retried with a short backoff.
func InitDB(dataDir string) (*sql.DB, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "pulseboard.db")
	connStr := dbPath + "?_journal_mode=WAL&_busy_timeout=5000"

	const maxRetries = 3
	var db *sql.DB
	var lastErr error
	for i := 0; i < maxRetries; i++ {
		var err error
		db, err = sql.Open("sqlite", connStr)
		if err == nil {
			if err = db.Ping(); err == nil {
				break
			}
			db.Close()
			db = nil
		}
		lastErr = err
		time.Sleep(time.Duration(100*(i+1)) * time.Millisecond)
	}
	if db == nil {
		return nil, fmt.Errorf("failed to open database: %w", lastErr)
	}

	if err := createMigrationsTable(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create migrations table: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, nil
}

// createMigrationsTable creates the schema_migrations table to track applied migrations
func createMigrationsTable(db *sql.DB) error {
	query := `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			description TEXT NOT NULL,
			applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
	`
	_, err := db.Exec(query)
	return err
}

// runMigrations applies all pending migrations
func runMigrations(db *sql.DB) error {
	for _, migration := range GetMigrations() {
		var count int
		err := db.QueryRow("SELECT COUNT(*) FROM schema_migrations WHERE version = ?", migration.Version).Scan(&count)
		if err != nil {
			return fmt.Errorf("failed to check migration status for version %d: %w", migration.Version, err)
		}
		if count > 0 {
			continue
		}

		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("failed to begin transaction for migration %d: %w", migration.Version, err)
		}
		if _, err := tx.Exec(migration.Up); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to execute migration %d (%s): %w", migration.Version, migration.Description, err)
		}
		if _, err := tx.Exec("INSERT INTO schema_migrations (version, description) VALUES (?, ?)", migration.Version, migration.Description); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to record migration %d: %w", migration.Version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, err)
		}
	}
	return nil
}
