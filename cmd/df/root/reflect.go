package root

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"dayflow/internal/ui"
)

func newReflectCmd() *cobra.Command {
	var day int

	cmd := &cobra.Command{
		Use:   "reflect <text>",
		Short: "Attach a reflection note to a day",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("text is required")
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

			if day == 0 {
				day = time.Now().Day()
			}
			if err := svc.SetReflection(ctx, day, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s day %d\n", ui.Good.Render(ui.IconPen+" Reflection saved for"), day)
			return nil
		},
	}

	cmd.Flags().IntVarP(&day, "day", "d", 0, "Day of month (defaults to today)")

	return cmd
}
