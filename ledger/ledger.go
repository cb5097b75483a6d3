// Package ledger maintains a single PostgreSQL table recording which
// migration versions have been applied, using jackc/pgx/v5.
package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/schemamorph/pgmigrate/render"
)

// DefaultTableName is used whenever a caller does not supply one.
const DefaultTableName = "schema_migrations"

// AppliedVersion is one row of the ledger table.
type AppliedVersion struct {
	Version     string
	Description string
	AppliedAt   time.Time
}

// Ledger wraps the ledger table for one (schema, table) pair.
type Ledger struct {
	pool       *pgxpool.Pool
	schemaName string
	tableName  string
}

// New returns a Ledger backed by pool. Empty schemaName/tableName fall back
// to "public" and "schema_migrations" respectively.
func New(pool *pgxpool.Pool, schemaName, tableName string) *Ledger {
	if schemaName == "" {
		schemaName = render.DefaultSchemaName
	}
	if tableName == "" {
		tableName = DefaultTableName
	}
	return &Ledger{pool: pool, schemaName: schemaName, tableName: tableName}
}

func (l *Ledger) qualified() string {
	return render.QualifiedName(l.schemaName, l.tableName)
}

// Init creates the ledger table if it does not already exist. Idempotent.
func (l *Ledger) Init(ctx context.Context) error {
	sql := fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS %s (
  version      TEXT PRIMARY KEY,
  description  TEXT NOT NULL,
  applied_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`, l.qualified())

	if _, err := l.pool.Exec(ctx, sql); err != nil {
		return fmt.Errorf("pgmigrate: failed to create ledger table %s: %w", l.qualified(), err)
	}
	return nil
}

// AppliedVersions returns every recorded version, ordered ascending by
// version.
func (l *Ledger) AppliedVersions(ctx context.Context) ([]AppliedVersion, error) {
	rows, err := l.pool.Query(ctx, fmt.Sprintf(
		`SELECT version, description, applied_at FROM %s ORDER BY version`, l.qualified(),
	))
	if err != nil {
		return nil, fmt.Errorf("pgmigrate: failed to query applied migrations: %w", err)
	}
	defer rows.Close()

	var out []AppliedVersion
	for rows.Next() {
		var av AppliedVersion
		if err := rows.Scan(&av.Version, &av.Description, &av.AppliedAt); err != nil {
			return nil, fmt.Errorf("pgmigrate: failed to scan ledger row: %w", err)
		}
		out = append(out, av)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pgmigrate: error iterating ledger rows: %w", err)
	}
	return out, nil
}

// Record inserts a row for a newly-applied migration version. It takes a
// pgx.Tx so the Runner can fold it into the same transaction that executed
// the migration's steps.
func (l *Ledger) Record(ctx context.Context, tx pgx.Tx, version, description string) error {
	_, err := tx.Exec(ctx, fmt.Sprintf(
		`INSERT INTO %s (version, description) VALUES ($1, $2)`, l.qualified(),
	), version, description)
	if err != nil {
		return fmt.Errorf("pgmigrate: failed to record migration %q: %w", version, err)
	}
	return nil
}

// Forget deletes the ledger row for version.
func (l *Ledger) Forget(ctx context.Context, tx pgx.Tx, version string) error {
	_, err := tx.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE version = $1`, l.qualified()), version)
	if err != nil {
		return fmt.Errorf("pgmigrate: failed to forget migration %q: %w", version, err)
	}
	return nil
}
