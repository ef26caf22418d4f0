package ecdsap256

import (
	"fmt"
	"math/big"
)

// DefaultMaxRetries bounds the redraw loops in key generation and signing.
const DefaultMaxRetries = 1000

// PublicKey is a finite curve point Q = d·G.
type PublicKey struct {
	Curve *CurveParams
	Q     Point
}

// PrivateKey is a scalar d in [1, n-2] together with its public key.
type PrivateKey struct {
	D      *big.Int
	public *PublicKey
}

// KeyPair bundles a private key with the matching public key.
type KeyPair struct {
	Private *PrivateKey
	Public  *PublicKey
}

// NewPublicKey returns the public key (x, y) on curve after checking that the
// point lies on it.
func NewPublicKey(curve *CurveParams, x, y *big.Int) (*PublicKey, error) {
	q := NewPoint(x, y)
	if !curve.IsOnCurve(q) {
		return nil, makeError(ErrPointNotOnCurve, fmt.Sprintf("public key %s is not on %s", q, curve.Name))
	}
	return &PublicKey{Curve: curve, Q: q}, nil
}

// NewPrivateKey returns the private key d after checking 1 ≤ d ≤ n-2 and
// deriving its public key.
func NewPrivateKey(curve *CurveParams, d *big.Int) (*PrivateKey, error) {
	max := new(big.Int).Sub(curve.N, two)
	if d.Cmp(one) < 0 || d.Cmp(max) > 0 {
		return nil, makeError(ErrInvalidPrivateKey, "private key is outside [1, n-2]")
	}
	q, err := curve.ScalarBaseMult(d)
	if err != nil {
		return nil, err
	}
	if q.IsInfinity() {
		return nil, makeError(ErrInvalidPrivateKey, "private key maps to the point at infinity")
	}
	return &PrivateKey{
		D:      new(big.Int).Set(d),
		public: &PublicKey{Curve: curve, Q: q},
	}, nil
}

// Public returns the public key of k.
func (k *PrivateKey) Public() *PublicKey {
	return k.public
}

// X returns a copy of the x-coordinate of the public point.
func (k *PublicKey) X() *big.Int {
	return k.Q.X()
}

// Y returns a copy of the y-coordinate of the public point.
func (k *PublicKey) Y() *big.Int {
	return k.Q.Y()
}

// Equal reports whether both keys are the same point on the same curve.
func (k *PublicKey) Equal(other *PublicKey) bool {
	return other != nil && k.Curve == other.Curve && k.Q.Equal(other.Q)
}

// GenerateKeyPair draws d uniformly from [1, n-2] and computes Q = d·G.  A
// draw that lands on the point at infinity is discarded, at most maxRetries
// times.
func GenerateKeyPair(curve *CurveParams, rng RandomSource, maxRetries int) (*KeyPair, error) {
	if maxRetries <= 0 {
		maxRetries = DefaultMaxRetries
	}
	hi := new(big.Int).Sub(curve.N, two)

	for i := 0; i < maxRetries; i++ {
		d, err := drawScalar(rng, one, hi)
		if err != nil {
			return nil, err
		}
		q, err := curve.ScalarBaseMult(d)
		if err != nil {
			return nil, err
		}
		if q.IsInfinity() {
			continue
		}

		pub := &PublicKey{Curve: curve, Q: q}
		return &KeyPair{
			Private: &PrivateKey{D: d, public: pub},
			Public:  pub,
		}, nil
	}

	return nil, makeError(ErrRetryExhausted, fmt.Sprintf("no usable private key after %d attempts", maxRetries))
}
