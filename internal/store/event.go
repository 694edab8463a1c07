package store

import (
	"context"
	"fmt"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

// attemptSequence names the counter stamped on every attempt.
const attemptSequence = "attempts"

// nextSequence bumps the named counter in the counters table and returns the
// new value; the first call for a name returns 1. Counters live in the
// database so a CLI run and an open dashboard never stamp the same number,
// and unlike row IDs they never go backwards.
//
// The bump is raw SQL because the builder cannot express an upsert that
// returns the updated value. It runs on the caller's transaction so a
// rolled-back insert leaves the counter untouched.
func nextSequence(ctx context.Context, tx dialect.ExecQuerier, name string) (int64, error) {
	var rows entsql.Rows
	err := tx.Query(ctx,
		`INSERT INTO counters (name, value) VALUES (?, 1)
		 ON CONFLICT (name) DO UPDATE SET value = value + 1
		 RETURNING value`, []any{name}, &rows,
	)
	if err != nil {
		return 0, fmt.Errorf("next %s sequence: %w", name, err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return 0, fmt.Errorf("next %s sequence: %w", name, err)
		}
		return 0, fmt.Errorf("next %s sequence: no value returned", name)
	}
	var v int64
	if err := rows.Scan(&v); err != nil {
		return 0, fmt.Errorf("next %s sequence: %w", name, err)
	}
	return v, nil
}
