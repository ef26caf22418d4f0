package ecdsap256

import (
	"context"
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// BatchResult is the outcome of verifying one record.
type BatchResult struct {
	Index int  // Position of the record in the input slice
	Valid bool // Whether the signature verified
}

// BatchReport summarizes a batch verification.
type BatchReport struct {
	Results []BatchResult
	Valid   int
	Invalid int
}

// AllValid reports whether every record verified.
func (r *BatchReport) AllValid() bool {
	return r.Invalid == 0
}

// verifyBatch verifies records against pub on up to workers goroutines.  It
// stops early and returns ctx.Err() when ctx is cancelled.
func verifyBatch(ctx context.Context, curve *CurveParams, records []*Record, pub *PublicKey, workers int) (*BatchReport, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	results := make([]BatchResult, len(records))
	var valid int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, rec := range records {
		i, rec := i, rec
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			sig := rec.Signature()
			ok := pub != nil && rec.Z != nil && sig.IsWellFormed(curve) && verifyHash(curve, rec.Z, sig, pub.Q)
			results[i] = BatchResult{Index: i, Valid: ok}
			if ok {
				atomic.AddInt64(&valid, 1)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return &BatchReport{
		Results: results,
		Valid:   int(valid),
		Invalid: len(records) - int(valid),
	}, nil
}
