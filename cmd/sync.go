package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fhorray/progy/internal/manifest"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Regenerate module manifests so editors see every exercise",
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := openWorkspace(cmd)
		if err != nil {
			return err
		}
		defer ws.Close()

		dialect, err := manifest.DialectFor(ws.profile.Name)
		if err != nil {
			return err
		}

		ws.printer.Syncing()
		gen := manifest.NewGenerator(ws.paths.ExercisesDir, ws.profile.Extension, dialect, ws.logger)
		rep, err := gen.Sync()
		if err != nil {
			ws.logger.Debug("sync aborted", "root", ws.paths.ExercisesDir, "error", err)
			ws.printer.Fail("%s not found!", ws.cfg.Workspace.ExercisesDir)
			return nil
		}
		ws.printer.Sync(rep)
		if !rep.OK() {
			return fmt.Errorf("%d manifests could not be written", len(rep.Failures))
		}
		return nil
	},
}
