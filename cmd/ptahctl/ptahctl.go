// Package ptahctl is a thin cobra-based CLI wrapper around runner.Runner,
// with subcommands for applying, rolling back, and reporting the status of
// a migration store against a live database.
package ptahctl

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/go-extras/cobraflags"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/schemamorph/pgmigrate/render"
	"github.com/schemamorph/pgmigrate/runner"
)

const envPrefix = "PTAHCTL"

const (
	connectionStringFlag = "connection-string"
	migrationsDirFlag    = "migrations-dir"
	schemaFlag           = "schema"
	migrationsTableFlag  = "migrations-table"
	verboseFlag          = "verbose"
)

var rootFlags = map[string]cobraflags.Flag{
	connectionStringFlag: &cobraflags.StringFlag{
		Name:       connectionStringFlag,
		Value:      "",
		Usage:      "PostgreSQL connection string (falls back to DATABASE_URL)",
		Persistent: true,
	},
	migrationsDirFlag: &cobraflags.StringFlag{
		Name:       migrationsDirFlag,
		Value:      "./migrations",
		Usage:      "Directory containing migration artifacts",
		Persistent: true,
	},
	schemaFlag: &cobraflags.StringFlag{
		Name:       schemaFlag,
		Value:      render.DefaultSchemaName,
		Usage:      "Target PostgreSQL schema",
		Persistent: true,
	},
	migrationsTableFlag: &cobraflags.StringFlag{
		Name:       migrationsTableFlag,
		Value:      "schema_migrations",
		Usage:      "Name of the ledger table",
		Persistent: true,
	},
	verboseFlag: &cobraflags.BoolFlag{
		Name:       verboseFlag,
		Usage:      "Log at debug level",
		Persistent: true,
	},
}

var rootCmd = &cobra.Command{
	Use:   "ptahctl",
	Short: "Apply and inspect declarative PostgreSQL schema migrations",
	Long: `ptahctl drives a migration store and ledger against a live PostgreSQL
database: it applies pending migrations, rolls them back, and reports status.

Configuration is read from (in priority order): command-line flags,
environment variables prefixed PTAHCTL_, and DATABASE_URL as a fallback for
the connection string. Set --verbose (or PTAHCTL_VERBOSE, or VERBOSE=true)
for debug-level logging.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Help()
	},
}

// Execute adds all child commands to the root command and runs it. Called
// once from main.main().
func Execute(args ...string) {
	viper.AutomaticEnv()
	viper.SetEnvPrefix(envPrefix)

	cobraflags.RegisterMap(rootCmd, rootFlags)
	rootCmd.SetArgs(args)
	rootCmd.AddCommand(newUpCommand())
	rootCmd.AddCommand(newDownCommand())
	rootCmd.AddCommand(newStatusCommand())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1) //revive:disable-line:deep-exit
	}
}

func connectionString() string {
	if cs := rootFlags[connectionStringFlag].GetString(); cs != "" {
		return cs
	}
	return os.Getenv("DATABASE_URL")
}

func newRunner(ctx context.Context) (*runner.Runner, error) {
	dsn := connectionString()
	if dsn == "" {
		return nil, fmt.Errorf("ptahctl: a connection string is required (set --%s or DATABASE_URL)", connectionStringFlag)
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("ptahctl: failed to connect to database: %w", err)
	}

	cfg := runner.Config{
		ConnectionString:    dsn,
		MigrationsDir:       rootFlags[migrationsDirFlag].GetString(),
		SchemaName:          rootFlags[schemaFlag].GetString(),
		MigrationsTableName: rootFlags[migrationsTableFlag].GetString(),
	}

	r := runner.New(cfg, pool)
	if rootFlags[verboseFlag].GetBool() || os.Getenv("VERBOSE") == "true" {
		r = r.WithLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}
	if err := r.Init(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return r, nil
}
