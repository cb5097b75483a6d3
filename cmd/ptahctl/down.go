package ptahctl

import (
	"context"
	"fmt"

	"github.com/go-extras/cobraflags"
	"github.com/spf13/cobra"

	"github.com/schemamorph/pgmigrate/runner"
)

const (
	toVersionFlag  = "to-version"
	downDryRunFlag = "dry-run"
)

var downFlags = map[string]cobraflags.Flag{
	toVersionFlag: &cobraflags.StringFlag{
		Name:  toVersionFlag,
		Value: "",
		Usage: "Roll back to (but not including) this version; defaults to undoing only the most recent migration",
	},
	downDryRunFlag: &cobraflags.BoolFlag{
		Name:  downDryRunFlag,
		Usage: "Plan the rollback but roll back the transaction instead of committing",
	},
}

func newDownCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "down",
		Short: "Roll back applied migrations",
		Long: `Roll back applied database migrations in descending version order.

WARNING: rollback runs each migration step's rollbackSql, which can be
destructive. Always review pending migrations with "status" first.`,
		RunE: downCommand,
	}
	cobraflags.RegisterMap(cmd, downFlags)
	return cmd
}

func downCommand(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	r, err := newRunner(ctx)
	if err != nil {
		return err
	}
	defer r.Close()

	result := r.Rollback(ctx, runner.RollbackOptions{
		ToVersion: downFlags[toVersionFlag].GetString(),
		DryRun:    downFlags[downDryRunFlag].GetBool(),
	})
	for _, version := range result.RolledBackMigrations {
		fmt.Printf("rolled back %s\n", version) //nolint:forbidigo // CLI output
	}
	if !result.Success {
		return fmt.Errorf("ptahctl: rollback failed: %w", result.Error)
	}
	return nil
}
