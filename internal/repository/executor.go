package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"golang.org/x/sync/errgroup"
)

// runBatches executes the statements as concurrent batch calls, bounded by
// the configured concurrency, and returns the flattened rows in chunk order.
//
// A batch call that errors or times out is logged and yields no rows; its
// siblings run to completion regardless. If the parent context is cancelled
// the whole operation fails - callers never see a partial aggregate built
// from a cancelled request.
func runBatches[T any](ctx context.Context, r *linkRepository, op string, stmts []statement, scanRow func(pgx.Rows) (T, error)) ([]T, error) {
	if len(stmts) == 0 {
		return nil, nil
	}

	batches := groupStatements(stmts, r.cfg.MaxStmtsPerBatch)
	results := make([][]T, len(batches))

	g := new(errgroup.Group)
	g.SetLimit(r.cfg.QueryConcurrency)
	for i, batch := range batches {
		i, batch := i, batch
		g.Go(func() error {
			// Each slot is written by exactly one goroutine.
			results[i] = runOneBatch(ctx, r, op, batch, scanRow)
			return nil
		})
	}
	// Goroutines always return nil; chunk failures degrade, never abort.
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var out []T
	for _, rows := range results {
		out = append(out, rows...)
	}
	return out, nil
}

// runOneBatch submits a single bounded batch call and scans every result set.
// On any failure the remaining rows of this call are abandoned: pgx batch
// results are not usable past the first errored statement, so the whole call
// is treated as one failed chunk.
func runOneBatch[T any](ctx context.Context, r *linkRepository, op string, stmts []statement, scanRow func(pgx.Rows) (T, error)) []T {
	bctx, cancel := context.WithTimeout(ctx, r.cfg.QueryTimeout)
	defer cancel()

	batch := &pgx.Batch{}
	for _, s := range stmts {
		batch.Queue(s.sql, s.args...)
	}

	br := r.db.SendBatch(bctx, batch)
	defer br.Close()

	var out []T
	for range stmts {
		rows, err := br.Query()
		if err != nil {
			r.log.Warn("Replica batch chunk failed", map[string]interface{}{
				"op":         op,
				"statements": len(stmts),
				"error":      err.Error(),
			})
			return out
		}

		for rows.Next() {
			v, err := scanRow(rows)
			if err != nil {
				rows.Close()
				r.log.Warn("Replica row scan failed", map[string]interface{}{
					"op":    op,
					"error": err.Error(),
				})
				return out
			}
			out = append(out, v)
		}
		err = rows.Err()
		rows.Close()
		if err != nil {
			r.log.Warn("Replica batch chunk failed mid-stream", map[string]interface{}{
				"op":    op,
				"error": err.Error(),
			})
			return out
		}
	}
	return out
}
