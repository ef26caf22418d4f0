package ecdsap256

import (
	"fmt"
	"math/big"
)

// RecoverPrivateKey solves for the private key behind two signatures whose
// nonces satisfy k₂ = a·k₁ + b:
//
//	d = (a·s₂·z₁ − s₁·z₂ + b·s₁·s₂) / (r₂·s₁ − a·r₁·s₂) mod n
//
// With a = 1, b = 0 this is the classic nonce-reuse attack.
func RecoverPrivateKey(curve *CurveParams, rec1, rec2 *Record, a, b *big.Int) (*big.Int, error) {
	n := curve.N

	// numerator: a·s2·z1 − s1·z2 + b·s1·s2
	as2z1 := new(big.Int).Mul(a, rec2.S)
	as2z1.Mul(as2z1, rec1.Z)

	s1z2 := new(big.Int).Mul(rec1.S, rec2.Z)

	bs1s2 := new(big.Int).Mul(b, rec1.S)
	bs1s2.Mul(bs1s2, rec2.S)

	numerator := new(big.Int).Sub(as2z1, s1z2)
	numerator.Add(numerator, bs1s2)
	numerator.Mod(numerator, n)

	// denominator: r2·s1 − a·r1·s2
	r2s1 := new(big.Int).Mul(rec2.R, rec1.S)

	ar1s2 := new(big.Int).Mul(a, rec1.R)
	ar1s2.Mul(ar1s2, rec2.S)

	denominator := new(big.Int).Sub(r2s1, ar1s2)
	denominator.Mod(denominator, n)

	if denominator.Sign() == 0 {
		return nil, makeError(ErrDegenerateRelation, "denominator is zero: cannot recover private key")
	}

	denominatorInv, err := ModInverse(denominator, n)
	if err != nil {
		return nil, err
	}

	priv := numerator.Mul(numerator, denominatorInv)
	return priv.Mod(priv, n), nil
}

// VerifyRecoveredKey reports whether d·G equals pub.
func VerifyRecoveredKey(curve *CurveParams, d *big.Int, pub *PublicKey) bool {
	if pub == nil || !inScalarRange(d, curve.N) {
		return false
	}
	q, err := curve.ScalarBaseMult(d)
	if err != nil {
		return false
	}
	return q.Equal(pub.Q)
}

// AuditNonceReuse looks for two records that share r, which means they were
// produced with the same nonce, and recovers the private key from them.  When
// pub is non-nil a candidate key is only accepted if it matches pub.
func AuditNonceReuse(curve *CurveParams, records []*Record, pub *PublicKey) (*RecoveryResult, error) {
	rel := NonceRelation{A: big.NewInt(1), B: big.NewInt(0)}
	result, err := SolveNonceRelation(curve, records, pub, rel, true)
	if err != nil {
		return nil, err
	}
	result.Pattern = "same_nonce"
	return result, nil
}

// SolveNonceRelation tries rel on every pair of records and returns the first
// key that is in range and, if pub is given, matches it.  When sameROnly is
// set only pairs with equal r are considered.
func SolveNonceRelation(curve *CurveParams, records []*Record, pub *PublicKey, rel NonceRelation, sameROnly bool) (*RecoveryResult, error) {
	for i := 0; i < len(records); i++ {
		for j := i + 1; j < len(records); j++ {
			if sameROnly && records[i].R.Cmp(records[j].R) != 0 {
				continue
			}

			priv, err := RecoverPrivateKey(curve, records[i], records[j], rel.A, rel.B)
			if err != nil {
				continue
			}
			if !inScalarRange(priv, curve.N) {
				continue
			}

			verified := false
			if pub != nil {
				if verified = VerifyRecoveredKey(curve, priv, pub); !verified {
					continue
				}
			}

			return &RecoveryResult{
				PrivateKey:    priv,
				Relation:      rel,
				SignaturePair: [2]int{i, j},
				Verified:      verified,
			}, nil
		}
	}

	if sameROnly {
		return nil, makeError(ErrNoNonceReuse, fmt.Sprintf("no reused nonce among %d signatures", len(records)))
	}
	return nil, makeError(ErrNoNonceReuse, fmt.Sprintf("relation k2 = %s*k1 + %s does not hold for any pair", rel.A, rel.B))
}
