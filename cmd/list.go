package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/fhorray/progy/internal/console"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all available exercises",
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := openWorkspace(cmd)
		if err != nil {
			return err
		}
		defer ws.Close()

		if withStatus, _ := cmd.Flags().GetBool("status"); !withStatus {
			ws.printer.Names(ws.locator.List())
			return nil
		}

		rec, err := ws.progress.Load()
		if err != nil {
			return err
		}
		rows := console.StatusRows(ws.locator.Exercises(), rec)
		if len(rows) == 0 {
			ws.printer.Warn("No exercises found in %v", ws.cfg.Workspace.SearchRoots)
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), console.StatusTable(rows, time.Now()))
		return nil
	},
}

func init() {
	listCmd.Flags().BoolP("status", "s", false, "Show status, attempts and last activity for each exercise")
}
