package console

import (
	"fmt"
	"iter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/fhorray/progy/internal/exercise"
	"github.com/fhorray/progy/internal/progress"
	"github.com/fhorray/progy/internal/store"
)

// StatusRow is one line of the `list --status` table.
type StatusRow struct {
	Exercise exercise.Exercise
	Progress *progress.ExerciseProgress
	Current  bool
}

// StatusRows pairs every discovered exercise with its progress entry.
func StatusRows(all iter.Seq[exercise.Exercise], rec *progress.Record) []StatusRow {
	var rows []StatusRow
	for ex := range all {
		rows = append(rows, StatusRow{
			Exercise: ex,
			Progress: rec.Exercises[ex.Name],
			Current:  ex.Name == rec.CurrentExercise,
		})
	}
	return rows
}

// StatusTable renders exercises with their status, attempts and last
// activity.
func StatusTable(rows []StatusRow, now time.Time) string {
	tbl := newTable()
	tbl.AppendHeader(table.Row{"", "Exercise", "Module", "Status", "Attempts", "Last activity"})

	done := 0
	for _, r := range rows {
		status := progress.StatusPending
		attempts := 0
		last := "-"
		if p := r.Progress; p != nil {
			status = p.Status
			attempts = p.Attempts
			if t := lastActivity(p); t != nil {
				last = humanize.RelTime(*t, now, "ago", "from now")
			}
		}
		if status == progress.StatusCompleted {
			done++
		}
		cursor := ""
		if r.Current {
			cursor = "▶"
		}
		tbl.AppendRow(table.Row{cursor, r.Exercise.Name, r.Exercise.Module(), string(status), attempts, last})
	}

	tbl.AppendFooter(table.Row{"", fmt.Sprintf("%d/%d completed", done, len(rows))})
	return tbl.Render()
}

func newTable() table.Writer {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Format.Footer = text.FormatDefault
	return tbl
}

func lastActivity(p *progress.ExerciseProgress) *time.Time {
	if p.CompletedAt != nil {
		return p.CompletedAt
	}
	return p.StartedAt
}

// HistoryTable renders recorded attempts, newest first.
func HistoryTable(records []store.AttemptRecord, now time.Time) string {
	tbl := newTable()
	tbl.AppendHeader(table.Row{"#", "When", "Exercise", "Mode", "Outcome", "Exit", "Duration"})

	for _, r := range records {
		tbl.AppendRow(table.Row{
			r.Sequence,
			humanize.RelTime(r.Timestamp, now, "ago", "from now"),
			r.Exercise,
			r.Mode,
			r.Outcome,
			r.ExitCode,
			(time.Duration(r.DurationMs) * time.Millisecond).String(),
		})
	}

	tbl.AppendFooter(table.Row{"", fmt.Sprintf("Total: %d attempts", len(records))})
	return tbl.Render()
}

// StatsTable renders per-exercise aggregates.
func StatsTable(stats []store.ExerciseStats, now time.Time) string {
	tbl := newTable()
	tbl.AppendHeader(table.Row{"Exercise", "Runs", "Tests", "Passes", "Last attempt"})

	for _, s := range stats {
		tbl.AppendRow(table.Row{
			s.Exercise,
			humanize.Comma(int64(s.Runs)),
			humanize.Comma(int64(s.Tests)),
			humanize.Comma(int64(s.Passes)),
			humanize.RelTime(s.LastAttempt, now, "ago", "from now"),
		})
	}
	return tbl.Render()
}
