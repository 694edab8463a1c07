package cmd

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fhorray/progy/internal/progress"
	"github.com/fhorray/progy/internal/runner"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset learner progress",
	Long: `Reset replaces the progress record with a fresh one. The attempt history is
kept.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := openWorkspace(cmd)
		if err != nil {
			return err
		}
		defer ws.Close()

		if yes, _ := cmd.Flags().GetBool("yes"); !yes && !confirm(cmd, "Reset all progress?") {
			ws.printer.Info("Progress left unchanged.")
			return nil
		}

		// A corrupt record is replaced rather than reported.
		rec, err := ws.progress.Load()
		if err != nil {
			ws.logger.Warn("replacing unreadable progress", "error", err)
			rec = nil
		}
		sess := runner.NewSession(rec, ws.progress, nil, ws.logger)
		if err := sess.Reset(); err != nil {
			return err
		}
		ws.printer.Success("Progress reset. Next up: %s", progress.DefaultExercise)
		return nil
	},
}

func init() {
	resetCmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")
}

// confirm asks a yes/no question on the command's streams. Anything but an
// explicit yes is a no.
func confirm(cmd *cobra.Command, question string) bool {
	fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N] ", question)
	sc := bufio.NewScanner(cmd.InOrStdin())
	if !sc.Scan() {
		fmt.Fprintln(cmd.OutOrStdout())
		return false
	}
	switch strings.ToLower(strings.TrimSpace(sc.Text())) {
	case "y", "yes":
		return true
	}
	return false
}
