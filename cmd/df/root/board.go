package root

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"dayflow/internal/tui"
)

func newBoardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "board [day]",
		Short: "Open the TUI day board",
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
			svc, cfg, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			day := time.Now().Day()
			if len(args) == 1 {
				day, _ = strconv.Atoi(args[0])
			}
			return tui.RunBoard(ctx, svc, day, cfg.Planner.StartHour, cfg.Planner.EndHour, cmd.OutOrStdout())
		},
	}
	return cmd
}
