package ecdsap256

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
)

// RandomSource produces uniformly distributed integers.  Implementations used
// from several goroutines at once must be safe for concurrent use.
type RandomSource interface {
	// Int returns a uniform integer in the closed interval [lo, hi].
	Int(lo, hi *big.Int) (*big.Int, error)
}

// CryptoSource draws from a cryptographically secure reader.  The zero value
// uses crypto/rand.Reader.
type CryptoSource struct {
	Reader io.Reader
}

// Int implements RandomSource.
func (s CryptoSource) Int(lo, hi *big.Int) (*big.Int, error) {
	if hi.Cmp(lo) < 0 {
		return nil, makeError(ErrRandomSource, fmt.Sprintf("empty range [%s, %s]", lo, hi))
	}
	r := s.Reader
	if r == nil {
		r = rand.Reader
	}

	// width = hi - lo + 1
	width := new(big.Int).Sub(hi, lo)
	width.Add(width, one)
	v, err := rand.Int(r, width)
	if err != nil {
		return nil, Error{Err: ErrRandomSource, Description: fmt.Sprintf("failed to read randomness: %v", err)}
	}
	return v.Add(v, lo), nil
}

// drawScalar asks rng for a value in [lo, hi] and checks the source stayed in
// range.
func drawScalar(rng RandomSource, lo, hi *big.Int) (*big.Int, error) {
	v, err := rng.Int(lo, hi)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRandomSource, err)
	}
	if v == nil || v.Cmp(lo) < 0 || v.Cmp(hi) > 0 {
		return nil, makeError(ErrRandomSource, fmt.Sprintf("random source returned %v outside [%s, %s]", v, lo, hi))
	}
	return v, nil
}
