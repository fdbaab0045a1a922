package root

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"dayflow/internal/ui"
)

func newDoCmd() *cobra.Command {
	var at string

	cmd := &cobra.Command{
		Use:   "do <instance_id>",
		Short: "Toggle a task instance (flip, or advance its counter)",
		Long: `Toggle an instance's completion.

Single-step instances flip between done and open. Counter instances
advance by one per call and wrap back to zero after reaching the target.
Progress on template-derived instances is mirrored back to the template.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("instance_id is required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cfg, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			hour, err := parsePlannerHour(cfg, at)
			if err != nil {
				return err
			}
			// Cyclic ids from the day view are adopted into real instances.
			id, err := svc.ResolveInstanceID(ctx, args[0])
			if err != nil {
				return err
			}
			res, err := svc.ToggleInstance(ctx, id, hour)
			if err != nil {
				return err
			}

			var line string
			switch {
			case res.TargetCount > 0:
				line = fmt.Sprintf("%s %s", ui.H2.Render(ui.IconTask+" Step"), ui.Counter(res.AccumulatedCount, res.TargetCount))
				if res.Completed {
					line += " " + ui.Good.Render(ui.IconDone+" complete")
				}
			case res.Completed:
				line = ui.Good.Render(ui.IconDone + " Done")
			default:
				line = ui.Warn.Render(ui.IconOpen + " Reopened")
			}
			if res.Mirrored {
				line += " " + ui.Muted.Render("(template updated)")
			}
			fmt.Fprintln(cmd.OutOrStdout(), line)
			return nil
		},
	}

	cmd.Flags().StringVar(&at, "at", "", "Pin the instance to a planner slot, e.g. 9 or 09:00")

	return cmd
}
