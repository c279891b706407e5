package store

import "context"

// RunScoped wraps ctx with the pipeline run id and calls fn inside the
// provided TxRunner, so every statement of a run commits or rolls back
// as one unit
func RunScoped(ctx context.Context, tx TxRunner, runID string, fn func(ctx context.Context, q RowQuerier) error) error {
	ctx = WithRun(ctx, runID)
	return tx.Tx(ctx, func(q RowQuerier) error {
		return fn(ctx, q)
	})
}
