package root

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"dayflow/internal/ui"
)

func newPlanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan <template_id> <day>",
		Short: "Toggle a template on a day (plan, or unplan if already there)",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 2 {
				return errors.New("template_id and day are required")
			}
			if _, err := strconv.Atoi(args[1]); err != nil {
				return errors.New("day must be an integer")
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

			day, _ := strconv.Atoi(args[1])
			res, err := svc.AddTemplateToDay(ctx, args[0], day)
			if err != nil {
				return err
			}
			if res.Removed {
				fmt.Fprintf(cmd.OutOrStdout(), "%s day %d\n", ui.Warn.Render(ui.IconTask+" Removed from"), day)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n",
				ui.Good.Render(ui.IconTask+" Planned"), res.Instance.Title,
				ui.Muted.Render(fmt.Sprintf("(day %d, id %s)", day, res.Instance.ID)))
			return nil
		},
	}
	return cmd
}
