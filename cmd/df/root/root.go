package root

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"dayflow/internal/ui"
)

const Version = "0.1.0"

var rootCmd = &cobra.Command{
	Use:           "df",
	Short:         "Dayflow — local-first daily planner",
	Long:          "Dayflow is a local-first CLI/TUI planner: reusable task templates, recurring cadences, habits with streaks, goals with key results, and daily self-scores.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate("{{.Name}} v{{.Version}}\n")

	rootCmd.AddCommand(
		newAddCmd(),
		newHabitCmd(),
		newGoalCmd(),
		newPlanCmd(),
		newUnplanCmd(),
		newDoCmd(),
		newRmCmd(),
		newDayCmd(),
		newListCmd(),
		newProgressCmd(),
		newScoreCmd(),
		newReflectCmd(),
		newReviewCmd(),
		newRenameCategoryCmd(),
		newBackupCmd(),
		newBoardCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, ui.Bad.Render(ui.IconError+" "+err.Error()))
		os.Exit(1)
	}
}
