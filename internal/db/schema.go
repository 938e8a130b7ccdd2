package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"fleetmove/internal/utils"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

const migrationsTable = `CREATE TABLE IF NOT EXISTS move_schema_migrations (
	name VARCHAR(190) NOT NULL PRIMARY KEY,
	applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
)`

// MigrationNames lists embedded migrations in apply order.
func MigrationNames() ([]string, error) {
	entries, err := fs.ReadDir(migrationFS, "migrations")
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".sql") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// Migrate applies every embedded migration not yet recorded, in name order.
// It returns the names it applied.
func Migrate(ctx context.Context, db *sql.DB) ([]string, error) {
	if db == nil {
		return nil, fmt.Errorf("migrate: db is nil")
	}
	if _, err := db.ExecContext(ctx, migrationsTable); err != nil {
		return nil, fmt.Errorf("migrate: create bookkeeping table: %w", err)
	}

	names, err := MigrationNames()
	if err != nil {
		return nil, err
	}

	applied := []string{}
	for _, name := range names {
		var exists int
		if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM move_schema_migrations WHERE name = ?`, name).Scan(&exists); err != nil {
			return applied, fmt.Errorf("migrate: check %s: %w", name, err)
		}
		if exists > 0 {
			continue
		}

		body, err := migrationFS.ReadFile("migrations/" + name)
		if err != nil {
			return applied, err
		}
		if _, err := db.ExecContext(ctx, string(body)); err != nil {
			return applied, fmt.Errorf("migrate: apply %s: %w", name, err)
		}
		if _, err := db.ExecContext(ctx, `INSERT INTO move_schema_migrations (name) VALUES (?)`, name); err != nil {
			return applied, fmt.Errorf("migrate: record %s: %w", name, err)
		}
		utils.LogEvent("", "db", "migrate", "applied "+name)
		applied = append(applied, name)
	}
	return applied, nil
}
