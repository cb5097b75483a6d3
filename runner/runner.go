// Package runner applies and rolls back migrations against a live
// PostgreSQL database, one transaction per migration, under a
// session-level advisory lock.
package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/schemamorph/pgmigrate/ledger"
	"github.com/schemamorph/pgmigrate/migration"
	"github.com/schemamorph/pgmigrate/render"
	"github.com/schemamorph/pgmigrate/store"
)

// advisoryLockKey is the well-known session-advisory-lock key every Runner
// acquires for the duration of apply/rollback. It has no special meaning
// beyond being a constant all pgmigrate processes agree on.
const advisoryLockKey = 0x70676d6967 // "pgmig" as hex digits

// ErrLockUnavailable is returned when another process holds the advisory
// lock.
var ErrLockUnavailable = errors.New("pgmigrate: another migration is already in progress")

// ErrLedgerConflict is returned when the ledger references a version with
// no matching store artifact, or vice versa, and the missing artifact is
// needed to complete the requested operation.
var ErrLedgerConflict = errors.New("pgmigrate: ledger and migration store disagree")

// SQLExecutionError wraps a failed migration step with enough context to
// diagnose it: the step name, the offending SQL, and the driver's
// diagnostic.
type SQLExecutionError struct {
	Version string
	Step    string
	SQL     string
	Err     error
}

func (e *SQLExecutionError) Error() string {
	return fmt.Sprintf("pgmigrate: migration %s step %q failed: %v\nSQL: %s", e.Version, e.Step, e.Err, e.SQL)
}

func (e *SQLExecutionError) Unwrap() error { return e.Err }

// Config configures a Runner.
type Config struct {
	ConnectionString    string
	MigrationsDir       string
	SchemaName          string
	MigrationsTableName string
}

// Status reports applied and pending migrations.
type Status struct {
	Applied []string
	Pending []string
}

// Result is the outcome of an apply or rollback call. Apply populates
// AppliedMigrations; Rollback populates RolledBackMigrations. Both are
// listed in the order the versions were processed.
type Result struct {
	Success              bool
	AppliedMigrations    []string `json:"appliedMigrations,omitempty"`
	RolledBackMigrations []string `json:"rolledBackMigrations,omitempty"`
	Error                error    `json:"error,omitempty"`
}

// ApplyOptions controls Apply.
type ApplyOptions struct {
	DryRun bool
}

// RollbackOptions controls Rollback.
type RollbackOptions struct {
	ToVersion string
	DryRun    bool
}

// Runner is the live-database counterpart to store.Store and ledger.Ledger:
// it sequences migration.Migration artifacts against a PostgreSQL database.
type Runner struct {
	cfg    Config
	pool   *pgxpool.Pool
	store  *store.Store
	ledger *ledger.Ledger
	logger *slog.Logger
}

// New constructs a Runner from cfg and an already-connected pool. The pool
// is owned by the caller only until Close is called, at which point the
// Runner closes it.
func New(cfg Config, pool *pgxpool.Pool) *Runner {
	schemaName := cfg.SchemaName
	if schemaName == "" {
		schemaName = render.DefaultSchemaName
	}
	return &Runner{
		cfg:    cfg,
		pool:   pool,
		store:  store.New(cfg.MigrationsDir),
		ledger: ledger.New(pool, schemaName, cfg.MigrationsTableName),
		logger: slog.Default(),
	}
}

// WithLogger sets the logger used for progress output.
func (r *Runner) WithLogger(l *slog.Logger) *Runner {
	tmp := *r
	tmp.logger = l
	return &tmp
}

// Init ensures the target schema exists and creates the ledger table if
// absent. Idempotent.
func (r *Runner) Init(ctx context.Context) error {
	schemaName := r.cfg.SchemaName
	if schemaName == "" {
		schemaName = render.DefaultSchemaName
	}
	_, err := r.pool.Exec(ctx, fmt.Sprintf(`CREATE SCHEMA IF NOT EXISTS %s`, render.Quote(schemaName)))
	if err != nil {
		return fmt.Errorf("pgmigrate: failed to ensure schema %q exists: %w", schemaName, err)
	}
	return r.ledger.Init(ctx)
}

// Status joins store.List with ledger.AppliedVersions by version.
func (r *Runner) Status(ctx context.Context) (Status, error) {
	entries, err := r.store.List()
	if err != nil {
		return Status{}, err
	}
	applied, err := r.ledger.AppliedVersions(ctx)
	if err != nil {
		return Status{}, err
	}

	appliedSet := make(map[string]bool, len(applied))
	for _, a := range applied {
		appliedSet[a.Version] = true
	}

	storeVersions := make(map[string]bool, len(entries))
	var pending []string
	for _, e := range entries {
		version := fmt.Sprintf("%d", e.Version)
		storeVersions[version] = true
		if !appliedSet[version] {
			pending = append(pending, version)
		}
	}

	var st Status
	for _, a := range applied {
		st.Applied = append(st.Applied, a.Version)
		if !storeVersions[a.Version] {
			r.logger.Warn("ledger references a version with no matching migration artifact", "version", a.Version)
		}
	}
	st.Pending = pending
	return st, nil
}

// Apply runs every pending migration in ascending version order, one
// transaction each. On the first failing step, it rolls back that
// migration's transaction, leaves earlier commits in place, and stops.
func (r *Runner) Apply(ctx context.Context, opts ApplyOptions) Result {
	unlock, err := r.acquireLock(ctx)
	if err != nil {
		return Result{Success: false, Error: err}
	}
	defer unlock()

	entries, err := r.store.List()
	if err != nil {
		return Result{Success: false, Error: err}
	}
	applied, err := r.ledger.AppliedVersions(ctx)
	if err != nil {
		return Result{Success: false, Error: err}
	}
	appliedSet := make(map[string]bool, len(applied))
	for _, a := range applied {
		appliedSet[a.Version] = true
	}

	var result Result
	result.Success = true

	for _, entry := range entries {
		version := fmt.Sprintf("%d", entry.Version)
		if appliedSet[version] {
			continue
		}

		m, err := r.store.Read(entry.Path)
		if err != nil {
			result.Success = false
			result.Error = err
			return result
		}

		r.logger.Info("applying migration", "version", m.Version, "description", m.Description)

		tx, err := r.pool.Begin(ctx)
		if err != nil {
			result.Success = false
			result.Error = fmt.Errorf("pgmigrate: failed to begin transaction for migration %s: %w", m.Version, err)
			return result
		}

		if stepErr := r.applySteps(ctx, tx, m); stepErr != nil {
			_ = tx.Rollback(ctx)
			result.Success = false
			result.Error = stepErr
			return result
		}

		if err := r.ledger.Record(ctx, tx, m.Version, m.Description); err != nil {
			_ = tx.Rollback(ctx)
			result.Success = false
			result.Error = err
			return result
		}

		if opts.DryRun {
			if err := tx.Rollback(ctx); err != nil {
				result.Success = false
				result.Error = fmt.Errorf("pgmigrate: failed to roll back dry-run transaction for migration %s: %w", m.Version, err)
				return result
			}
		} else {
			if err := tx.Commit(ctx); err != nil {
				result.Success = false
				result.Error = fmt.Errorf("pgmigrate: failed to commit transaction for migration %s: %w", m.Version, err)
				return result
			}
		}

		r.logger.Info("applied migration", "version", m.Version, "description", m.Description, "dryRun", opts.DryRun)
		result.AppliedMigrations = append(result.AppliedMigrations, m.Version)
	}

	return result
}

func (r *Runner) applySteps(ctx context.Context, tx pgx.Tx, m migration.Migration) error {
	for _, step := range m.Steps {
		if step.SQL == "" {
			continue
		}
		if _, err := tx.Exec(ctx, step.SQL); err != nil {
			return &SQLExecutionError{Version: m.Version, Step: step.Name, SQL: step.SQL, Err: err}
		}
	}
	return nil
}

// Rollback selects applied migrations whose version is strictly greater
// than opts.ToVersion (or only the most recent one when omitted), in
// descending order, and reverts each in its own transaction.
func (r *Runner) Rollback(ctx context.Context, opts RollbackOptions) Result {
	unlock, err := r.acquireLock(ctx)
	if err != nil {
		return Result{Success: false, Error: err}
	}
	defer unlock()

	applied, err := r.ledger.AppliedVersions(ctx)
	if err != nil {
		return Result{Success: false, Error: err}
	}
	if len(applied) == 0 {
		return Result{Success: true}
	}

	sort.Slice(applied, func(i, j int) bool { return applied[i].Version > applied[j].Version })

	var toRevert []string
	if opts.ToVersion == "" {
		toRevert = []string{applied[0].Version}
	} else {
		for _, a := range applied {
			if a.Version > opts.ToVersion {
				toRevert = append(toRevert, a.Version)
			}
		}
	}

	entries, err := r.store.List()
	if err != nil {
		return Result{Success: false, Error: err}
	}
	byVersion := make(map[string]store.Entry, len(entries))
	for _, e := range entries {
		byVersion[fmt.Sprintf("%d", e.Version)] = e
	}

	var result Result
	result.Success = true

	for _, version := range toRevert {
		entry, ok := byVersion[version]
		if !ok {
			result.Success = false
			result.Error = fmt.Errorf("%w: no migration artifact for applied version %s", ErrLedgerConflict, version)
			return result
		}

		m, err := r.store.Read(entry.Path)
		if err != nil {
			result.Success = false
			result.Error = err
			return result
		}

		r.logger.Info("rolling back migration", "version", m.Version, "description", m.Description)

		tx, err := r.pool.Begin(ctx)
		if err != nil {
			result.Success = false
			result.Error = fmt.Errorf("pgmigrate: failed to begin transaction for migration %s: %w", m.Version, err)
			return result
		}

		if stepErr := r.revertSteps(ctx, tx, m); stepErr != nil {
			_ = tx.Rollback(ctx)
			result.Success = false
			result.Error = stepErr
			return result
		}

		if err := r.ledger.Forget(ctx, tx, m.Version); err != nil {
			_ = tx.Rollback(ctx)
			result.Success = false
			result.Error = err
			return result
		}

		if opts.DryRun {
			if err := tx.Rollback(ctx); err != nil {
				result.Success = false
				result.Error = fmt.Errorf("pgmigrate: failed to roll back dry-run transaction for migration %s: %w", m.Version, err)
				return result
			}
		} else {
			if err := tx.Commit(ctx); err != nil {
				result.Success = false
				result.Error = fmt.Errorf("pgmigrate: failed to commit transaction for migration %s: %w", m.Version, err)
				return result
			}
		}

		r.logger.Info("rolled back migration", "version", m.Version, "description", m.Description, "dryRun", opts.DryRun)
		result.RolledBackMigrations = append(result.RolledBackMigrations, m.Version)
	}

	return result
}

func (r *Runner) revertSteps(ctx context.Context, tx pgx.Tx, m migration.Migration) error {
	for i := len(m.Steps) - 1; i >= 0; i-- {
		step := m.Steps[i]
		if step.RollbackSQL == "" {
			continue
		}
		if _, err := tx.Exec(ctx, step.RollbackSQL); err != nil {
			return &SQLExecutionError{Version: m.Version, Step: step.Name, SQL: step.RollbackSQL, Err: err}
		}
	}
	return nil
}

// Close releases the Runner's database resources.
func (r *Runner) Close() {
	r.pool.Close()
}

func (r *Runner) acquireLock(ctx context.Context) (func(), error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("pgmigrate: failed to acquire connection for advisory lock: %w", err)
	}

	var locked bool
	if err := conn.QueryRow(ctx, `SELECT pg_try_advisory_lock($1)`, advisoryLockKey).Scan(&locked); err != nil {
		conn.Release()
		return nil, fmt.Errorf("pgmigrate: failed to acquire advisory lock: %w", err)
	}
	if !locked {
		conn.Release()
		return nil, ErrLockUnavailable
	}

	return func() {
		_, _ = conn.Exec(ctx, `SELECT pg_advisory_unlock($1)`, advisoryLockKey)
		conn.Release()
	}, nil
}
