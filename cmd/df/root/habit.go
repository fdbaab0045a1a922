package root

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"dayflow/internal/engine"
	"dayflow/internal/ui"
)

func newHabitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "habit",
		Short: "Manage habits",
	}
	cmd.AddCommand(
		newHabitAddCmd(),
		newHabitDoneCmd(),
		newHabitResetStreakCmd(),
		newHabitListCmd(),
		newHabitRmCmd(),
	)
	return cmd
}

func newHabitAddCmd() *cobra.Command {
	var category string
	var krID string
	var every int
	var times int
	var target int
	var icon string
	var color string

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a habit",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("title is required")
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

			var kr *string
			if krID != "" {
				kr = &krID
			}
			h, err := svc.CreateHabit(ctx, engine.CreateHabitInput{
				Title:       args[0],
				Category:    category,
				Cadence:     engine.Cadence{Days: every, Times: times},
				TargetCount: target,
				KRID:        kr,
				IconName:    icon,
				Color:       color,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n",
				ui.Good.Render(ui.IconHabit+" Added"), h.Title,
				ui.Muted.Render(fmt.Sprintf("(every %d days, target %d, id %s)", h.FrequencyDays, h.TargetCount, h.ID)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&category, "cat", "c", "", "Category")
	cmd.Flags().StringVar(&krID, "kr", "", "Key result id to link")
	cmd.Flags().IntVar(&every, "every", 1, "Recur every N days")
	cmd.Flags().IntVar(&times, "times", 1, "Times per cadence window")
	cmd.Flags().IntVarP(&target, "target", "t", 1, "Daily step target")
	cmd.Flags().StringVar(&icon, "icon", "", "Icon name")
	cmd.Flags().StringVar(&color, "color", "", "Accent color (hex)")

	return cmd
}

func newHabitDoneCmd() *cobra.Command {
	var at string

	cmd := &cobra.Command{
		Use:   "done <id>",
		Short: "Check a habit off (advance its counter)",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("id is required")
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
			res, err := svc.ToggleHabit(ctx, args[0], hour)
			if err != nil {
				return err
			}
			line := fmt.Sprintf("%s %s", ui.Good.Render(ui.IconHabit+" Habit"), ui.Muted.Render(fmt.Sprintf("count %d", res.AccumulatedCount)))
			if res.StreakAdvanced {
				line += " " + ui.Gold.Render(fmt.Sprintf("%s streak %d", ui.IconSparkle, res.Streak))
			} else if !res.CompletedToday && res.AccumulatedCount == 0 {
				line = ui.Warn.Render(ui.IconHabit+" Habit reset for today") + " " + ui.Muted.Render(fmt.Sprintf("(streak %d kept)", res.Streak))
			}
			fmt.Fprintln(cmd.OutOrStdout(), line)
			return nil
		},
	}

	cmd.Flags().StringVar(&at, "at", "", "Pin the check-off to a planner slot, e.g. 9 or 09:00")

	return cmd
}

func newHabitResetStreakCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset-streak <id>",
		Short: "Reset a habit's streak to zero",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("id is required")
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

			if err := svc.ResetStreak(ctx, args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Warn.Render(ui.IconHabit+" Streak reset"))
			return nil
		},
	}
	return cmd
}

func newHabitListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List habits",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, _, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			habits, err := svc.HabitRepo().ListAll(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Heading(ui.IconHabit, "Habits"))
			if len(habits) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), ui.Muted.Render("(none)"))
				return nil
			}
			for _, h := range habits {
				line := fmt.Sprintf("%s %s %s", ui.CheckIcon(h.CompletedToday), h.Title, ui.Counter(h.AccumulatedCount, h.TargetCount))
				if h.Streak > 0 {
					line += " " + ui.Gold.Render(fmt.Sprintf("streak %d", h.Streak))
				}
				if h.Category != "" {
					line += " " + ui.Muted.Render("["+h.Category+"]")
				}
				line += " " + ui.Dim.Render(h.ID)
				fmt.Fprintln(cmd.OutOrStdout(), "- "+line)
			}
			return nil
		},
	}
	return cmd
}

func newHabitRmCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a habit",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("id is required")
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

			if err := svc.DeleteHabit(ctx, args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Warn.Render("Deleted habit"))
			return nil
		},
	}
	return cmd
}
