package cmd

import (
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run <name>",
	Short: "Compile and run an exercise",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := openWorkspace(cmd)
		if err != nil {
			return err
		}
		defer ws.Close()
		return runExercise(cmd, ws, args[0])
	},
}

var testCmd = &cobra.Command{
	Use:   "test <name>",
	Short: "Compile an exercise's tests, run them and record the result",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := openWorkspace(cmd)
		if err != nil {
			return err
		}
		defer ws.Close()
		return testExercise(cmd, ws, args[0])
	},
}

// runExercise streams a run of name. Runs never read or change progress, so
// a corrupt record does not stop them; they are kept in the attempt history.
func runExercise(cmd *cobra.Command, ws *workspace, name string) error {
	sess := ws.historySession()
	rep := ws.streamingEngine(cmd).Run(cmd.Context(), name)
	ws.printer.Report(rep)
	return sess.Apply(cmd.Context(), rep)
}

// testExercise streams a test run of name and folds the result into
// progress.
func testExercise(cmd *cobra.Command, ws *workspace, name string) error {
	sess, err := ws.session()
	if err != nil {
		return err
	}
	rep := ws.streamingEngine(cmd).Test(cmd.Context(), name)
	ws.printer.Report(rep)
	if err := sess.Apply(cmd.Context(), rep); err != nil {
		return err
	}
	if rep.TestsPassed {
		ws.printer.Marked(rep.Name)
	}
	ws.logger.Debug("test finished",
		"run_id", rep.RunID,
		"exercise", rep.Name,
		"outcome", rep.Outcome.String(),
		"duration", rep.Duration)
	return nil
}
