package cmd

import (
	"github.com/spf13/cobra"

	"github.com/fhorray/progy/internal/progress"
)

var nextCmd = &cobra.Command{
	Use:   "next",
	Short: "Run the next pending exercise listed in PROGRESS.md",
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := openWorkspace(cmd)
		if err != nil {
			return err
		}
		defer ws.Close()

		text, err := progress.ReadMarkdown(ws.paths.ProgressMarkdown)
		if err != nil {
			ws.logger.Debug("read progress markdown", "error", err)
			ws.printer.Warn("Could not read %s", ws.cfg.Workspace.ProgressMarkdown)
			return nil
		}

		name, ok := progress.NextPending(text, ws.profile.Extension)
		if !ok {
			ws.printer.Success("No pending exercises found in %s!", ws.cfg.Workspace.ProgressMarkdown)
			return nil
		}
		ws.printer.Info("Next exercise found: %s", name)
		return runExercise(cmd, ws, name)
	},
}
