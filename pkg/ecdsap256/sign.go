package ecdsap256

import (
	"fmt"
	"math/big"

	"github.com/rs/zerolog"
)

// Sign produces an ECDSA signature over message with priv.
//
// A fresh nonce k is drawn from [1, n-1] on every attempt.  Attempts where
// k·G is the point at infinity, r == 0 or s == 0 are discarded; after
// maxRetries such attempts ErrRetryExhausted is returned.  maxRetries <= 0
// selects DefaultMaxRetries.
func Sign(curve *CurveParams, digest Digest, message []byte, priv *PrivateKey, rng RandomSource, maxRetries int) (*Signature, error) {
	if priv == nil || priv.D == nil {
		return nil, makeError(ErrInvalidPrivateKey, "private key is nil")
	}
	z := digest.HashToScalar(curve, message)
	return signHash(curve, z, priv.D, rng, maxRetries, zerolog.Nop())
}

// signHash signs the digest scalar z with the private scalar d.
func signHash(curve *CurveParams, z, d *big.Int, rng RandomSource, maxRetries int, log zerolog.Logger) (*Signature, error) {
	if maxRetries <= 0 {
		maxRetries = DefaultMaxRetries
	}
	n := curve.N
	hi := new(big.Int).Sub(n, one)

	for attempt := 1; attempt <= maxRetries; attempt++ {
		k, err := drawScalar(rng, one, hi)
		if err != nil {
			return nil, err
		}

		kG, err := curve.ScalarBaseMult(k)
		if err != nil {
			return nil, err
		}
		if kG.IsInfinity() {
			log.Debug().Int("attempt", attempt).Msg("nonce maps to infinity, retrying")
			continue
		}

		r := new(big.Int).Mod(kG.x, n)
		if r.Sign() == 0 {
			log.Debug().Int("attempt", attempt).Msg("r is zero, retrying")
			continue
		}

		kInv, err := ModInverse(k, n)
		if err != nil {
			return nil, err
		}
		// s = k⁻¹(z + r·d) mod n
		s := new(big.Int).Mul(r, d)
		s.Add(s, z)
		s.Mul(s, kInv)
		s.Mod(s, n)
		if s.Sign() == 0 {
			log.Debug().Int("attempt", attempt).Msg("s is zero, retrying")
			continue
		}

		return &Signature{R: r, S: s}, nil
	}

	return nil, makeError(ErrRetryExhausted, fmt.Sprintf("no valid signature after %d attempts", maxRetries))
}
