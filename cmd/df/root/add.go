package root

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"dayflow/internal/engine"
	"dayflow/internal/ui"
)

func newAddCmd() *cobra.Command {
	var category string
	var krID string
	var every int
	var times int
	var target int
	var subtasks []string
	var day int
	var at string

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a task template (or a one-off task with --day)",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("title is required")
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

			var kr *string
			if krID != "" {
				kr = &krID
			}
			var tgt *int
			if target > 0 {
				tgt = &target
			}

			// --day creates a freestanding task directly on the calendar.
			if day > 0 {
				var slot *string
				hour, err := parsePlannerHour(cfg, at)
				if err != nil {
					return err
				}
				if hour != nil {
					s := engine.FormatHourSlot(*hour)
					slot = &s
				}
				inst, err := svc.CreateFreeInstance(ctx, engine.CreateFreeInstanceInput{
					Title:       args[0],
					Category:    category,
					Day:         day,
					TimeSlot:    slot,
					KRID:        kr,
					TargetCount: tgt,
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n",
					ui.Good.Render(ui.IconPlus+" Added"), inst.Title,
					ui.Muted.Render(fmt.Sprintf("(day %d, id %s)", inst.Day, inst.ID)))
				return nil
			}

			var cadence *engine.Cadence
			if every > 0 {
				cadence = &engine.Cadence{Days: every, Times: times}
			}
			t, err := svc.CreateTemplate(ctx, engine.CreateTemplateInput{
				Title:       args[0],
				Category:    category,
				KRID:        kr,
				Cadence:     cadence,
				TargetCount: tgt,
				Subtasks:    subtasks,
			})
			if err != nil {
				return err
			}
			tag := "one-off"
			if t.FrequencyDays != nil {
				tag = fmt.Sprintf("every %d days", *t.FrequencyDays)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n",
				ui.Good.Render(ui.IconPlus+" Added"), t.Title,
				ui.Muted.Render(fmt.Sprintf("(%s, id %s)", tag, t.ID)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&category, "cat", "c", "", "Category")
	cmd.Flags().StringVar(&krID, "kr", "", "Key result id to link")
	cmd.Flags().IntVar(&every, "every", 0, "Recur every N days (with --times)")
	cmd.Flags().IntVar(&times, "times", 1, "Times per cadence window")
	cmd.Flags().IntVarP(&target, "target", "t", 0, "Step target (counter tasks)")
	cmd.Flags().StringArrayVarP(&subtasks, "sub", "s", nil, "Subtask title (repeatable)")
	cmd.Flags().IntVarP(&day, "day", "d", 0, "Create directly on a day of month (one-off task)")
	cmd.Flags().StringVar(&at, "at", "", "Planner slot, e.g. 9 or 09:00 (with --day)")

	return cmd
}
