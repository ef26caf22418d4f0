package ecdsap256

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"runtime"
	"sync/atomic"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Pattern is a named nonce relation tried before the range search.
type Pattern struct {
	Relation NonceRelation
	Name     string
}

// SearchConfig bounds a nonce-relation search.
type SearchConfig struct {
	// ARange and BRange are the inclusive ranges for a and b in k2 = a·k1 + b.
	// a = 0 is always skipped.
	ARange [2]int64
	BRange [2]int64

	// MaxPairs limits the number of record pairs in the range search
	// (0 = all pairs).
	MaxPairs int

	// Workers controls parallelization (0 = auto-detect).
	Workers int

	// Patterns are tried, in order, before the range search.  Nil selects
	// CommonPatterns.
	Patterns []Pattern
}

// DefaultSearchConfig returns a search over counter-style nonces.
func DefaultSearchConfig() SearchConfig {
	return SearchConfig{
		ARange:   [2]int64{1, 1},
		BRange:   [2]int64{-1000, 1000},
		MaxPairs: 100,
	}
}

// CommonPatterns returns the relations produced by typical broken nonce
// generators: counters, fixed steps and small multiples.
func CommonPatterns() []Pattern {
	patterns := []Pattern{}
	add := func(a, b int64, name string) {
		patterns = append(patterns, Pattern{
			Relation: NonceRelation{A: big.NewInt(a), B: big.NewInt(b)},
			Name:     name,
		})
	}

	for b := int64(1); b <= 5; b++ {
		add(1, b, fmt.Sprintf("counter_+%d", b))
		add(1, -b, fmt.Sprintf("counter_-%d", b))
	}
	for _, step := range []int64{8, 10, 16, 32, 64, 100, 128, 256, 512, 1000, 1024, 10000} {
		add(1, step, fmt.Sprintf("step_%d", step))
	}
	add(2, 0, "multiply_2")
	add(2, 1, "multiply_2_+1")
	add(3, 0, "multiply_3")
	add(4, 0, "multiply_4")
	add(-1, 0, "negate")
	return patterns
}

var errRelationFound = errors.New("relation found")

// SearchNonceRelation looks for a pair of records whose nonces satisfy
// k2 = a·k1 + b and recovers the private key from it.  It checks for plain
// nonce reuse first, then cfg.Patterns, then every (a, b) in the configured
// ranges.  pub is required: every candidate key is confirmed against it.
func SearchNonceRelation(ctx context.Context, curve *CurveParams, records []*Record, pub *PublicKey, cfg SearchConfig, log zerolog.Logger) (*RecoveryResult, error) {
	if pub == nil {
		return nil, errors.New("a public key is required to confirm candidate keys")
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("need at least 2 signatures, got %d", len(records))
	}

	log.Debug().Int("records", len(records)).Msg("checking for same nonce reuse")
	result, err := AuditNonceReuse(curve, records, pub)
	if err == nil {
		return result, nil
	}
	if !errors.Is(err, ErrNoNonceReuse) {
		return nil, err
	}

	patterns := cfg.Patterns
	if patterns == nil {
		patterns = CommonPatterns()
	}
	log.Debug().Int("patterns", len(patterns)).Msg("trying common nonce patterns")
	for _, pattern := range patterns {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		result, err := SolveNonceRelation(curve, records, pub, pattern.Relation, false)
		if err == nil {
			result.Pattern = pattern.Name
			return result, nil
		}
		if !errors.Is(err, ErrNoNonceReuse) {
			return nil, err
		}
	}

	log.Debug().
		Int64("a_min", cfg.ARange[0]).Int64("a_max", cfg.ARange[1]).
		Int64("b_min", cfg.BRange[0]).Int64("b_max", cfg.BRange[1]).
		Msg("starting range search")
	return searchRange(ctx, curve, records, pub, cfg)
}

// searchRange tries every (a, b) in the configured ranges on each record pair.
// Pairs are spread over the worker pool and the first confirmed key cancels
// the remaining work.
func searchRange(ctx context.Context, curve *CurveParams, records []*Record, pub *PublicKey, cfg SearchConfig) (*RecoveryResult, error) {
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	var found atomic.Pointer[RecoveryResult]
	var tested atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	pairs := 0
outer:
	for i := 0; i < len(records); i++ {
		for j := i + 1; j < len(records); j++ {
			if cfg.MaxPairs > 0 && pairs >= cfg.MaxPairs {
				break outer
			}
			if gctx.Err() != nil {
				break outer
			}
			pairs++

			i, j := i, j
			g.Go(func() error {
				// last stops the loops at the upper bound so a bound of
				// math.MaxInt64 cannot wrap around.
				for a, last := cfg.ARange[0], false; !last && a <= cfg.ARange[1]; a++ {
					last = a == cfg.ARange[1]
					if a == 0 {
						continue
					}
					aBig := big.NewInt(a)
					for b, last := cfg.BRange[0], false; !last && b <= cfg.BRange[1]; b++ {
						last = b == cfg.BRange[1]
						if err := gctx.Err(); err != nil {
							return err
						}
						tested.Add(1)

						bBig := big.NewInt(b)
						priv, err := RecoverPrivateKey(curve, records[i], records[j], aBig, bBig)
						if err != nil || !VerifyRecoveredKey(curve, priv, pub) {
							continue
						}

						found.CompareAndSwap(nil, &RecoveryResult{
							PrivateKey:    priv,
							Relation:      NonceRelation{A: aBig, B: bBig},
							SignaturePair: [2]int{i, j},
							Verified:      true,
							Pattern:       fmt.Sprintf("range_a%d_b%d", a, b),
						})
						return errRelationFound
					}
				}
				return nil
			})
		}
	}

	err := g.Wait()
	if result := found.Load(); result != nil {
		return result, nil
	}
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return nil, makeError(ErrNoNonceReuse, fmt.Sprintf("no relation found after %d candidates over %d pairs", tested.Load(), pairs))
}
