package cmd

import (
	"github.com/spf13/cobra"

	"github.com/fhorray/progy/internal/console"
	"github.com/fhorray/progy/internal/progress"
)

var rootCmd = &cobra.Command{
	Use:   "progy",
	Short: "Interactive runner for programming exercises",
	Long: `progy compiles and runs single-file exercises, tracks what you have completed
and keeps the exercise tree wired up for your editor.

Without a command it resumes the active exercise named in PROGRESS.md.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if noColor, _ := cmd.Flags().GetBool("no-color"); noColor {
			console.SetColor(false)
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return resume(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to the config file (default .progy.yaml in the workspace or $HOME)")
	rootCmd.PersistentFlags().StringP("workdir", "C", "", "Workspace directory (default current directory)")
	rootCmd.PersistentFlags().Bool("no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log diagnostics at debug level")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(testCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(nextCmd)
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

// resume runs the active exercise from the progress markdown, or greets the
// learner when there is none.
func resume(cmd *cobra.Command) error {
	ws, err := openWorkspace(cmd)
	if err != nil {
		return err
	}
	defer ws.Close()

	text, err := progress.ReadMarkdown(ws.paths.ProgressMarkdown)
	if err != nil {
		ws.logger.Debug("no progress markdown", "error", err)
		ws.printer.Welcome()
		return nil
	}
	name, ok := progress.ActiveExercise(text)
	if !ok {
		ws.printer.Welcome()
		return nil
	}
	return runExercise(cmd, ws, name)
}
