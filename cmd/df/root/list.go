package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"dayflow/internal/ui"
)

func newListCmd() *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List task templates",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, _, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			templates, err := svc.TemplateRepo().ListAll(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Heading(ui.IconTask, "Templates"))
			shown := 0
			for _, t := range templates {
				if category != "" && t.Category != category {
					continue
				}
				shown++
				line := t.Title
				if t.FrequencyDays != nil {
					line += " " + ui.Muted.Render(fmt.Sprintf("%s every %d days", ui.IconCycle, *t.FrequencyDays))
				}
				if t.TargetCount != nil && *t.TargetCount > 1 {
					line += " " + ui.Counter(t.AccumulatedCount, *t.TargetCount)
				}
				if t.Category != "" {
					line += " " + ui.Muted.Render("["+t.Category+"]")
				}
				if len(t.Subtasks) > 0 {
					line += " " + ui.Dim.Render(fmt.Sprintf("%d subtasks", len(t.Subtasks)))
				}
				line += " " + ui.Dim.Render(t.ID)
				fmt.Fprintln(cmd.OutOrStdout(), "- "+line)
			}
			if shown == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), ui.Muted.Render("(none)"))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&category, "cat", "c", "", "Filter by category")

	return cmd
}
