package store

import (
	"context"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

// attemptColumns is the select list shared by attempt queries, in scan order.
var attemptColumns = []string{
	"sequence", "timestamp", "run_id", "exercise", "mode",
	"outcome", "passed", "exit_code", "duration_ms",
}

// attemptRepo implements AttemptRepo on the attempts table.
type attemptRepo struct {
	drv *entsql.Driver
}

func builder() *entsql.DialectBuilder {
	return entsql.Dialect(dialect.SQLite)
}

func (r *attemptRepo) AppendAttempt(ctx context.Context, data AttemptEventData) error {
	ts := data.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	tx, err := r.drv.Tx(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	seq, err := nextSequence(ctx, tx, attemptSequence)
	if err != nil {
		return err
	}

	query, args := builder().Insert(AttemptsTable.Name).
		Columns(attemptColumns...).
		Values(seq, ts.UnixMilli(), data.RunID, data.Exercise, data.Mode,
			data.Outcome, data.Passed, data.ExitCode, data.DurationMs).
		Query()
	if err := tx.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("save attempt: %w", err)
	}
	return tx.Commit()
}

func (r *attemptRepo) QueryAttempts(ctx context.Context, opts QueryOpts) ([]AttemptRecord, error) {
	var preds []*entsql.Predicate
	if opts.After > 0 {
		preds = append(preds, entsql.GT("sequence", opts.After))
	}
	if opts.Before > 0 {
		preds = append(preds, entsql.LT("sequence", opts.Before))
	}
	if !opts.From.IsZero() {
		preds = append(preds, entsql.GTE("timestamp", opts.From.UnixMilli()))
	}
	if !opts.To.IsZero() {
		preds = append(preds, entsql.LTE("timestamp", opts.To.UnixMilli()))
	}
	if opts.Exercise != "" {
		preds = append(preds, entsql.EQ("exercise", opts.Exercise))
	}

	sel := builder().Select(attemptColumns...).
		From(entsql.Table(AttemptsTable.Name)).
		OrderBy(entsql.Desc("sequence"))
	if len(preds) > 0 {
		sel.Where(entsql.And(preds...))
	}
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}

	query, args := sel.Query()
	var rows entsql.Rows
	if err := r.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, fmt.Errorf("query attempts: %w", err)
	}
	defer rows.Close()

	var records []AttemptRecord
	for rows.Next() {
		var (
			rec    AttemptRecord
			millis int64
		)
		if err := rows.Scan(&rec.Sequence, &millis, &rec.RunID, &rec.Exercise, &rec.Mode,
			&rec.Outcome, &rec.Passed, &rec.ExitCode, &rec.DurationMs); err != nil {
			return nil, fmt.Errorf("scan attempt: %w", err)
		}
		rec.Timestamp = time.UnixMilli(millis)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate attempts: %w", err)
	}
	return records, nil
}

func (r *attemptRepo) ExerciseStats(ctx context.Context) ([]ExerciseStats, error) {
	query, args := builder().Select(
		"exercise",
		"SUM(CASE WHEN mode = 'run' THEN 1 ELSE 0 END)",
		"SUM(CASE WHEN mode = 'test' THEN 1 ELSE 0 END)",
		entsql.Sum("passed"),
		entsql.Max("timestamp"),
	).
		From(entsql.Table(AttemptsTable.Name)).
		GroupBy("exercise").
		OrderBy(entsql.Desc(entsql.Max("sequence"))).
		Query()

	var rows entsql.Rows
	if err := r.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, fmt.Errorf("query exercise stats: %w", err)
	}
	defer rows.Close()

	var stats []ExerciseStats
	for rows.Next() {
		var (
			st     ExerciseStats
			millis int64
		)
		if err := rows.Scan(&st.Exercise, &st.Runs, &st.Tests, &st.Passes, &millis); err != nil {
			return nil, fmt.Errorf("scan exercise stats: %w", err)
		}
		st.LastAttempt = time.UnixMilli(millis)
		stats = append(stats, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate exercise stats: %w", err)
	}
	return stats, nil
}
