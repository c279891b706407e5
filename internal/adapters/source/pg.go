package source

import (
	"context"
	"fmt"

	"timegrid/internal/core/frame"
	"timegrid/internal/platform/store"
)

// ReadPG runs the spec's query against postgres and assembles the
// result set into a frame. Rows buffer in memory before kinds are
// sniffed, so queries should already be cut down to the window of
// interest. Exotic column types come back as text; cast them in the
// query when that matters
func ReadPG(ctx context.Context, q store.RowQuerier, spec Spec, o Options) (*frame.Frame, error) {
	sql, err := selectSQL(spec)
	if err != nil {
		return nil, err
	}

	rows, err := q.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("source: pg query: %w", err)
	}
	defer rows.Close()

	names := rows.Columns()
	var buf [][]any
	for rows.Next() {
		vals := make([]any, len(names))
		ptrs := make([]any, len(names))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("source: pg scan: %w", err)
		}
		buf = append(buf, vals)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("source: pg rows: %w", err)
	}
	return frameFromValues(names, buf, o)
}
