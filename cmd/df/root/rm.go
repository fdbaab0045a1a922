package root

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"dayflow/internal/ui"
)

func newRmCmd() *cobra.Command {
	var template bool

	cmd := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete an instance, or a template with --template",
		Long: `Delete a task.

Without flags the id names a day instance and only that instance is
removed. With --template the id names a library template; the template
and every instance derived from it are removed together.`,
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

			if template {
				if err := svc.DeleteTemplate(ctx, args[0]); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), ui.Warn.Render("Deleted template and its day instances"))
				return nil
			}
			if err := svc.DeleteInstance(ctx, args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Warn.Render("Deleted instance"))
			return nil
		},
	}

	cmd.Flags().BoolVar(&template, "template", false, "Delete a template (cascades to its instances)")

	return cmd
}
