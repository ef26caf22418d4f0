package ecdsap256

import "math/big"

// Verify reports whether sig is a valid signature over message for pub.
//
// Malformed signatures, intermediate points at infinity and arithmetic
// failures all yield false; Verify never returns an error.  pub is not
// checked for being on the curve, use NewPublicKey for that.
func Verify(curve *CurveParams, digest Digest, message []byte, sig *Signature, pub *PublicKey) bool {
	// The range check must come first: r or s of 0 or n would otherwise let
	// forged signatures through.
	if !sig.IsWellFormed(curve) {
		return false
	}
	if pub == nil {
		return false
	}
	z := digest.HashToScalar(curve, message)
	return verifyHash(curve, z, sig, pub.Q)
}

// verifyHash checks sig against the digest scalar z and public point q.  sig
// must already be well formed.
func verifyHash(curve *CurveParams, z *big.Int, sig *Signature, q Point) bool {
	n := curve.N

	w, err := ModInverse(sig.S, n)
	if err != nil {
		return false
	}
	u1 := new(big.Int).Mul(z, w)
	u1.Mod(u1, n)
	u2 := new(big.Int).Mul(sig.R, w)
	u2.Mod(u2, n)

	p1, err := curve.ScalarBaseMult(u1)
	if err != nil || p1.IsInfinity() {
		return false
	}
	p2, err := curve.ScalarMult(u2, q)
	if err != nil || p2.IsInfinity() {
		return false
	}

	sum, err := curve.Add(p1, p2)
	if err != nil || sum.IsInfinity() {
		return false
	}

	v := new(big.Int).Mod(sum.x, n)
	return v.Cmp(sig.R) == 0
}
