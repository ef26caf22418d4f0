package ecdsap256

import "math/big"

// Signature is an ECDSA signature (r, s).
type Signature struct {
	R *big.Int // r = (k·G).x mod n
	S *big.Int // s = k⁻¹(z + r·d) mod n
}

// IsWellFormed reports whether 1 ≤ r, s ≤ n-1.
func (sig *Signature) IsWellFormed(curve *CurveParams) bool {
	return sig != nil && inScalarRange(sig.R, curve.N) && inScalarRange(sig.S, curve.N)
}

func inScalarRange(v, n *big.Int) bool {
	return v != nil && v.Sign() > 0 && v.Cmp(n) < 0
}

// Record is a signature as read from an external source, together with the
// digest scalar of the message it covers.
type Record struct {
	Message []byte   // Original message, when the source carried one
	Z       *big.Int // Message digest as a scalar mod n
	R       *big.Int // r component of the signature
	S       *big.Int // s component of the signature
}

// Signature returns the (r, s) pair of rec.
func (rec *Record) Signature() *Signature {
	return &Signature{R: rec.R, S: rec.S}
}

// NonceRelation represents the relationship between two nonces.
// k2 = a*k1 + b
type NonceRelation struct {
	A *big.Int // Affine coefficient
	B *big.Int // Affine offset
}

// RecoveryResult contains the result of a nonce-reuse audit.
type RecoveryResult struct {
	PrivateKey    *big.Int      // Recovered private key
	Relation      NonceRelation // The nonce relation that was solved
	SignaturePair [2]int        // Indices of the records used
	Verified      bool          // Whether the key was checked against a public key
	Pattern       string        // Name of the pattern that matched
}
