package ptahctl

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show applied and pending migrations",
		Long: `Display every migration recorded in the ledger alongside every migration
artifact still pending in the migrations directory.`,
		RunE: statusCommand,
	}
}

func statusCommand(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	r, err := newRunner(ctx)
	if err != nil {
		return err
	}
	defer r.Close()

	st, err := r.Status(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("applied (%d):\n", len(st.Applied)) //nolint:forbidigo // CLI output
	for _, v := range st.Applied {
		fmt.Printf("  %s\n", v) //nolint:forbidigo // CLI output
	}
	fmt.Printf("pending (%d):\n", len(st.Pending)) //nolint:forbidigo // CLI output
	for _, v := range st.Pending {
		fmt.Printf("  %s\n", v) //nolint:forbidigo // CLI output
	}
	return nil
}
