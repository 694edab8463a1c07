package cmd

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/fhorray/progy/internal/toolchain"
)

var errDoctorFailed = errors.New("workspace check failed")

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the compiler and the workspace layout",
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := openWorkspace(cmd)
		if err != nil {
			return err
		}
		defer ws.Close()

		p := ws.printer
		failed := false

		p.Info("Toolchain profile %s (compiler %s)", ws.profile.Name, ws.profile.Compiler)
		version, err := ws.compiler.Version(cmd.Context())
		switch {
		case err != nil:
			p.Fail("Failed to call %s: %v", ws.profile.Compiler, err)
			p.Info("Make sure %s is installed correctly.", ws.profile.Compiler)
			failed = true
		default:
			if err := toolchain.CheckVersion(version, ws.profile.MinVersion); err != nil {
				p.Fail("%s %s: %v", ws.profile.Compiler, version, err)
				failed = true
			} else {
				p.Success("%s %s", ws.profile.Compiler, version)
			}
		}

		for i, root := range ws.paths.SearchRoots {
			label := ws.cfg.Workspace.SearchRoots[i]
			info, err := os.Stat(root)
			switch {
			case err != nil:
				p.Warn("Search root %s does not exist", label)
			case !info.IsDir():
				p.Fail("Search root %s is not a directory", label)
				failed = true
			default:
				p.Success("Search root %s", label)
			}
		}

		n := 0
		for range ws.locator.Exercises() {
			n++
		}
		if n == 0 {
			p.Fail("No %s exercises found", ws.profile.Extension)
			failed = true
		} else {
			p.Success("%d exercises found", n)
		}

		if _, err := ws.progress.Load(); err != nil {
			p.Fail("Progress file: %v", err)
			failed = true
		} else {
			p.Success("Progress file %s", ws.cfg.Workspace.ProgressFile)
		}

		if ws.attempts() == nil {
			p.Warn("Attempt history is not available")
		} else {
			p.Success("Attempt history %s", ws.cfg.Workspace.HistoryDB)
		}

		if failed {
			return errDoctorFailed
		}
		return nil
	},
}
