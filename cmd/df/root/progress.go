package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"dayflow/internal/engine"
	"dayflow/internal/ui"
)

func newProgressCmd() *cobra.Command {
	var strategyArg string

	cmd := &cobra.Command{
		Use:   "progress",
		Short: "Show derived progress for every goal",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, _, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			strategy, err := engine.ParseProgressStrategy(strategyArg)
			if err != nil {
				return err
			}
			overview, err := svc.GoalOverview(ctx, strategy)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), ui.Heading(ui.IconGoal, "Goal Progress"))
			if len(overview) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), ui.Muted.Render("(no goals)"))
				return nil
			}
			for _, gp := range overview {
				fmt.Fprintln(cmd.OutOrStdout(), ui.H2.Render(gp.Goal.Title))
				if len(gp.KeyResults) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "  "+ui.Muted.Render("(no key results)"))
					continue
				}
				for _, krp := range gp.KeyResults {
					fmt.Fprintf(cmd.OutOrStdout(), "  %s %s\n", ui.ProgressBar(krp.Progress, 20), krp.KeyResult.Title)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&strategyArg, "strategy", "", "Aggregation strategy (counter_sum|head_count); default from config")

	return cmd
}
