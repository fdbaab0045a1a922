package root

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"dayflow/internal/engine"
	"dayflow/internal/ui"
)

func newRenameCategoryCmd() *cobra.Command {
	var familyArg string

	cmd := &cobra.Command{
		Use:   "rename-category <old> <new>",
		Short: "Rename a category within one family (task|habit|goal)",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 2 {
				return errors.New("old and new category names are required")
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

			family, err := engine.ParseCategoryFamily(familyArg)
			if err != nil {
				return err
			}
			n, err := svc.RenameCategory(ctx, family, args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %q → %q %s\n",
				ui.Good.Render("Renamed"), args[0], args[1],
				ui.Muted.Render(fmt.Sprintf("(%d items)", n)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&familyArg, "family", "f", "task", "Category family (task|habit|goal)")

	return cmd
}
