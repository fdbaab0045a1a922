package root

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"dayflow/internal/engine"
	"dayflow/internal/ui"
)

func newGoalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "goal",
		Short: "Manage goals and key results",
	}
	cmd.AddCommand(
		newGoalAddCmd(),
		newGoalKRCmd(),
		newGoalListCmd(),
		newGoalRmCmd(),
	)
	return cmd
}

func newGoalAddCmd() *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a goal",
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

			g, err := svc.CreateGoal(ctx, engine.CreateGoalInput{Title: args[0], Category: category})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n",
				ui.Good.Render(ui.IconGoal+" Added"), g.Title, ui.Muted.Render("(id "+g.ID+")"))
			return nil
		},
	}

	cmd.Flags().StringVarP(&category, "cat", "c", "", "Category")

	return cmd
}

func newGoalKRCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "kr",
		Short: "Manage key results",
	}
	cmd.AddCommand(
		newGoalKRAddCmd(),
		newGoalKRSetCmd(),
		newGoalKRRmCmd(),
	)
	return cmd
}

func newGoalKRAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <goal_id> <title>",
		Short: "Add a key result to a goal",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 2 {
				return errors.New("goal_id and title are required")
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

			kr, err := svc.AddKeyResult(ctx, args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n",
				ui.Good.Render(ui.IconGoal+" Added KR"), kr.Title, ui.Muted.Render("(id "+kr.ID+")"))
			return nil
		},
	}
	return cmd
}

func newGoalKRSetCmd() *cobra.Command {
	var progress int

	cmd := &cobra.Command{
		Use:   "set <kr_id>",
		Short: "Set a key result's stored progress",
		Long: `Set the stored progress value of a key result.

The stored value only shows through while no template or habit links to
the key result; once items link, progress is derived from them.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("kr_id is required")
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

			if err := svc.SetKeyResultProgress(ctx, args[0], progress); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %d%%\n", ui.Good.Render(ui.IconGoal+" Progress set to"), progress)
			return nil
		},
	}

	cmd.Flags().IntVarP(&progress, "progress", "p", 0, "Progress percentage (0-100)")
	_ = cmd.MarkFlagRequired("progress")

	return cmd
}

func newGoalKRRmCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rm <kr_id>",
		Short: "Delete a key result (unlinks referencing items)",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("kr_id is required")
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

			if err := svc.RemoveKeyResult(ctx, args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Warn.Render("Deleted key result"))
			return nil
		},
	}
	return cmd
}

func newGoalListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List goals with key results",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, _, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			goals, err := svc.GoalRepo().ListAll(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Heading(ui.IconGoal, "Goals"))
			if len(goals) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), ui.Muted.Render("(none)"))
				return nil
			}
			for _, g := range goals {
				line := g.Title
				if g.Category != "" {
					line += " " + ui.Muted.Render("["+g.Category+"]")
				}
				fmt.Fprintln(cmd.OutOrStdout(), ui.H2.Render(line)+" "+ui.Dim.Render(g.ID))
				krs, err := svc.GoalRepo().ListKeyResults(ctx, g.ID)
				if err != nil {
					return err
				}
				for _, kr := range krs {
					fmt.Fprintf(cmd.OutOrStdout(), "  - %s %s\n", kr.Title, ui.Dim.Render(kr.ID))
				}
			}
			return nil
		},
	}
	return cmd
}

func newGoalRmCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a goal, its key results and all links to them",
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

			if err := svc.DeleteGoal(ctx, args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Warn.Render("Deleted goal"))
			return nil
		},
	}
	return cmd
}
