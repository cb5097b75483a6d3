package ptahctl

import (
	"context"
	"fmt"

	"github.com/go-extras/cobraflags"
	"github.com/spf13/cobra"

	"github.com/schemamorph/pgmigrate/runner"
)

const dryRunFlag = "dry-run"

var upFlags = map[string]cobraflags.Flag{
	dryRunFlag: &cobraflags.BoolFlag{
		Name:  dryRunFlag,
		Usage: "Plan every pending migration but roll back instead of committing",
	},
}

func newUpCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Long: `Apply all pending database migrations to bring the schema up to date.

Each migration runs in its own transaction under a session advisory lock;
if any step fails the migration's transaction rolls back and the run stops,
leaving earlier successful migrations committed.`,
		RunE: upCommand,
	}
	cobraflags.RegisterMap(cmd, upFlags)
	return cmd
}

func upCommand(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	r, err := newRunner(ctx)
	if err != nil {
		return err
	}
	defer r.Close()

	result := r.Apply(ctx, runner.ApplyOptions{DryRun: upFlags[dryRunFlag].GetBool()})
	for _, version := range result.AppliedMigrations {
		fmt.Printf("applied %s\n", version) //nolint:forbidigo // CLI output
	}
	if !result.Success {
		return fmt.Errorf("ptahctl: apply failed: %w", result.Error)
	}
	return nil
}
