package storage

import (
	"database/sql"
	"fmt"
)

// migrations is the ordered list of schema changes. Each entry runs in
// its own transaction; the schema_version table records progress so
// restarts are idempotent.
var migrations = []string{
	// 1: initial schema
	`
	CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		username TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL DEFAULT '',
		name TEXT NOT NULL,
		role TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS members (
		id TEXT PRIMARY KEY,
		admission_number TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		phone TEXT NOT NULL,
		address TEXT NOT NULL,
		gym_plan TEXT NOT NULL,
		created_by TEXT,
		created_at TEXT NOT NULL,
		FOREIGN KEY (created_by) REFERENCES users(id)
	);

	CREATE TABLE IF NOT EXISTS fees (
		id TEXT PRIMARY KEY,
		member_id TEXT NOT NULL,
		amount_paid REAL NOT NULL,
		payment_date TEXT NOT NULL,
		due_date TEXT NOT NULL,
		status TEXT NOT NULL,
		created_by TEXT,
		created_at TEXT NOT NULL,
		FOREIGN KEY (member_id) REFERENCES members(id),
		FOREIGN KEY (created_by) REFERENCES users(id)
	);

	CREATE TABLE IF NOT EXISTS diet_plans (
		id TEXT PRIMARY KEY,
		member_id TEXT NOT NULL,
		plan_date TEXT NOT NULL,
		created_by TEXT,
		created_at TEXT NOT NULL,
		FOREIGN KEY (member_id) REFERENCES members(id),
		FOREIGN KEY (created_by) REFERENCES users(id)
	);

	CREATE TABLE IF NOT EXISTS diet_meals (
		id TEXT PRIMARY KEY,
		plan_id TEXT NOT NULL,
		time_slot TEXT NOT NULL,
		name TEXT NOT NULL,
		category TEXT NOT NULL,
		quantity TEXT NOT NULL,
		FOREIGN KEY (plan_id) REFERENCES diet_plans(id)
	);

	CREATE TABLE IF NOT EXISTS sessions (
		token TEXT PRIMARY KEY,
		identity TEXT NOT NULL,
		created_at TEXT NOT NULL,
		expires_at TEXT NOT NULL
	);
	`,
	// 2: indexes for the hot list queries
	`
	CREATE INDEX IF NOT EXISTS idx_fees_due_date ON fees(due_date);
	CREATE INDEX IF NOT EXISTS idx_fees_member ON fees(member_id);
	CREATE INDEX IF NOT EXISTS idx_diet_plans_member ON diet_plans(member_id);
	CREATE INDEX IF NOT EXISTS idx_members_created_at ON members(created_at);
	`,
}

// LatestSchemaVersion returns the version the database is migrated to.
func LatestSchemaVersion() int {
	return len(migrations)
}

// SchemaVersion returns the current schema version of the database.
// PRE: db is a valid connection
// POST: returns 0 for a fresh database
func SchemaVersion(db *sql.DB) (int, error) {
	if _, err := db.Exec("CREATE TABLE IF NOT EXISTS schema_version (version INTEGER NOT NULL)"); err != nil {
		return 0, fmt.Errorf("failed to ensure schema_version table: %w", err)
	}
	var version int
	err := db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_version").Scan(&version)
	if err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	return version, nil
}

// MigrateDB applies all pending migrations.
// PRE: db is a valid database connection
// POST: schema is at LatestSchemaVersion(); re-running is a no-op
func MigrateDB(db *sql.DB) error {
	current, err := SchemaVersion(db)
	if err != nil {
		return err
	}

	for i := current; i < len(migrations); i++ {
		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("failed to begin migration %d: %w", i+1, err)
		}
		if _, err := tx.Exec(migrations[i]); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
		if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", i+1); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to record migration %d: %w", i+1, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", i+1, err)
		}
	}
	return nil
}
