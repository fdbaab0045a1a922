package root

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"dayflow/internal/ui"
)

func newReviewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "review [day]",
		Short: "Review a day's scores and reflection",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 1 {
				return errors.New("at most one day argument")
			}
			if len(args) == 1 {
				if _, err := strconv.Atoi(args[0]); err != nil {
					return errors.New("day must be an integer")
				}
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

			day := time.Now().Day()
			if len(args) == 1 {
				day, _ = strconv.Atoi(args[0])
			}

			rev, err := svc.ReviewDay(ctx, day)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), ui.Heading(ui.IconScore, fmt.Sprintf("Day %d (%s %s)", rev.Day.Date, rev.Day.Weekday, rev.Day.FullDate)))
			if len(rev.Scores) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), ui.Muted.Render("(no scores)"))
			}
			for _, sc := range rev.Scores {
				label := sc.DefinitionID
				if def, err := svc.ScoreDefRepo().Get(ctx, sc.DefinitionID); err == nil && def != nil {
					label = def.Label
					if text, ok := def.Labels[sc.Value]; ok {
						label += " " + ui.Muted.Render("("+text+")")
					}
				}
				fmt.Fprintf(cmd.OutOrStdout(), "- %s %+d\n", label, sc.Value)
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.LabelValue("Total", fmt.Sprintf("%+d", rev.Total)))
			if rev.Day.Reflection != nil {
				fmt.Fprintln(cmd.OutOrStdout(), "")
				fmt.Fprintln(cmd.OutOrStdout(), ui.H2.Render(ui.IconPen+" Reflection"))
				fmt.Fprintln(cmd.OutOrStdout(), *rev.Day.Reflection)
			}
			return nil
		},
	}
	return cmd
}
