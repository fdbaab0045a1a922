package root

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"dayflow/internal/storage"
	"dayflow/internal/ui"
)

func newDayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "day [day]",
		Short: "Show a day's agenda (defaults to today)",
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

			if err := svc.EnsureMonthDays(ctx); err != nil {
				return err
			}
			view, err := svc.BuildDayView(ctx, day)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), ui.Heading(ui.IconTask, fmt.Sprintf("Day %d (%s %s)", view.Day, view.Weekday, view.FullDate)))
			if view.Total != 0 {
				fmt.Fprintln(cmd.OutOrStdout(), ui.LabelValue("Score", fmt.Sprintf("%+d", view.Total)))
			}

			if len(view.Instances) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), ui.Muted.Render("(nothing planned)"))
			}
			for _, in := range view.Instances {
				fmt.Fprintln(cmd.OutOrStdout(), "- "+instanceLine(in))
			}

			if len(view.Habits) > 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "")
				fmt.Fprintln(cmd.OutOrStdout(), ui.H2.Render(ui.IconHabit+" Habits"))
				for _, h := range view.Habits {
					line := fmt.Sprintf("%s %s %s", ui.CheckIcon(h.CompletedToday), h.Title, ui.Counter(h.AccumulatedCount, h.TargetCount))
					if h.Streak > 0 {
						line += " " + ui.Gold.Render(fmt.Sprintf("streak %d", h.Streak))
					}
					fmt.Fprintln(cmd.OutOrStdout(), "- "+line)
				}
			}
			return nil
		},
	}
	return cmd
}

func instanceLine(in storage.Instance) string {
	line := ui.CheckIcon(in.Completed) + " "
	if in.TimeSlot != nil {
		line += ui.Key.Render(*in.TimeSlot) + " "
	}
	line += in.Title
	if in.TargetCount != nil && *in.TargetCount > 1 {
		line += " " + ui.Counter(in.AccumulatedCount, *in.TargetCount)
	}
	if in.IsCyclic {
		line += " " + ui.Muted.Render(ui.IconCycle)
	}
	if in.Category != "" {
		line += " " + ui.Muted.Render("["+in.Category+"]")
	}
	done := 0
	for _, st := range in.Subtasks {
		if st.Completed {
			done++
		}
	}
	if len(in.Subtasks) > 0 {
		line += " " + ui.Dim.Render(fmt.Sprintf("subtasks %d/%d", done, len(in.Subtasks)))
	}
	line += " " + ui.Dim.Render(in.ID)
	return line
}
