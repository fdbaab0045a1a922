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

func newScoreCmd() *cobra.Command {
	var day int
	var defID string

	cmd := &cobra.Command{
		Use:   "score <value>",
		Short: "Record a daily self-score (-2..2)",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("value is required")
			}
			if _, err := strconv.Atoi(args[0]); err != nil {
				return errors.New("value must be an integer")
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

			value, _ := strconv.Atoi(args[0])
			if day == 0 {
				day = time.Now().Day()
			}
			if defID == "" {
				def, err := svc.EnsureDefaultScoreDefinition(ctx)
				if err != nil {
					return err
				}
				defID = def.ID
			}
			if err := svc.SetDailyScore(ctx, day, defID, value); err != nil {
				return err
			}
			total, err := svc.DailyTotal(ctx, day)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %+d %s\n",
				ui.Good.Render(ui.IconScore+" Scored"), value,
				ui.Muted.Render(fmt.Sprintf("(day %d total %+d)", day, total)))
			return nil
		},
	}

	cmd.Flags().IntVarP(&day, "day", "d", 0, "Day of month (defaults to today)")
	cmd.Flags().StringVar(&defID, "def", "", "Score definition id (defaults to the built-in dimension)")

	return cmd
}
