package root

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"dayflow/internal/ui"
)

func newUnplanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "unplan <instance_id>",
		Short: "Clear an instance's planner slot (keep it on the day)",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("instance_id is required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, _, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := svc.RetractInstance(ctx, args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Warn.Render(ui.IconClock+" Unscheduled"))
			return nil
		},
	}
	return cmd
}
