package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/fhorray/progy/internal/console"
	"github.com/fhorray/progy/internal/store"
)

var errNoHistory = errors.New("attempt history is not available")

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent runs and tests",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		name, _ := cmd.Flags().GetString("exercise")
		stats, _ := cmd.Flags().GetBool("stats")

		ws, err := openWorkspace(cmd)
		if err != nil {
			return err
		}
		defer ws.Close()

		repo := ws.attempts()
		if repo == nil {
			return errNoHistory
		}
		out := cmd.OutOrStdout()
		now := time.Now()

		if stats {
			agg, err := repo.ExerciseStats(cmd.Context())
			if err != nil {
				return fmt.Errorf("query stats: %w", err)
			}
			if len(agg) == 0 {
				fmt.Fprintln(out, "No attempts recorded yet.")
				return nil
			}
			fmt.Fprintln(out, console.StatsTable(agg, now))
			return nil
		}

		records, err := repo.QueryAttempts(cmd.Context(), store.QueryOpts{Limit: limit, Exercise: name})
		if err != nil {
			return fmt.Errorf("query attempts: %w", err)
		}
		if len(records) == 0 {
			fmt.Fprintln(out, "No attempts recorded yet.")
			return nil
		}
		fmt.Fprintln(out, console.HistoryTable(records, now))
		return nil
	},
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 20, "Number of attempts to show")
	historyCmd.Flags().StringP("exercise", "e", "", "Only show attempts of this exercise")
	historyCmd.Flags().Bool("stats", false, "Show per-exercise totals instead of single attempts")
}
