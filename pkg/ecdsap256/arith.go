package ecdsap256

import (
	"fmt"
	"math/big"
)

var (
	one   = big.NewInt(1)
	two   = big.NewInt(2)
	three = big.NewInt(3)
)

// ModInverse returns v in [0, m) such that k·v ≡ 1 (mod m), computed with the
// extended Euclidean algorithm.
//
// k may be negative or larger than m; it is reduced into [0, m) first.
func ModInverse(k, m *big.Int) (*big.Int, error) {
	if m.Sign() <= 0 {
		return nil, makeError(ErrInvalidModulus, fmt.Sprintf("modulus %s is not positive", m))
	}

	// big.Int.Mod is Euclidean, so the result is already non-negative.
	a := new(big.Int).Mod(k, m)
	if a.Sign() == 0 {
		return nil, makeError(ErrDivisionByZero, fmt.Sprintf("%s is zero modulo %s", k, m))
	}

	var (
		oldR = new(big.Int).Set(a)
		r    = new(big.Int).Set(m)
		oldS = big.NewInt(1)
		s    = big.NewInt(0)
		q    = new(big.Int)
		tmp  = new(big.Int)
	)
	for r.Sign() != 0 {
		q.Quo(oldR, r)

		tmp.Mul(q, r)
		tmp.Sub(oldR, tmp)
		oldR.Set(r)
		r.Set(tmp)

		tmp.Mul(q, s)
		tmp.Sub(oldS, tmp)
		oldS.Set(s)
		s.Set(tmp)
	}

	if oldR.Cmp(one) != 0 {
		return nil, makeError(ErrNoInverse, fmt.Sprintf("%s has no inverse modulo %s", k, m))
	}
	return oldS.Mod(oldS, m), nil
}

// Negate returns -p, that is (x, (P-y) mod P).
func (c *CurveParams) Negate(p Point) Point {
	if p.IsInfinity() {
		return Infinity()
	}
	p = c.reduce(p)
	y := new(big.Int).Neg(p.y)
	y.Mod(y, c.P)
	return Point{x: new(big.Int).Set(p.x), y: y}
}

// Add returns p1 + p2 using the affine group law.
func (c *CurveParams) Add(p1, p2 Point) (Point, error) {
	p1, p2 = c.reduce(p1), c.reduce(p2)
	if p1.IsInfinity() {
		return p2, nil
	}
	if p2.IsInfinity() {
		return p1, nil
	}

	if p1.x.Cmp(p2.x) == 0 {
		if p1.y.Cmp(p2.y) == 0 {
			return c.Double(p1)
		}
		// Vertical line through inverse points.
		return Infinity(), nil
	}

	// λ = (y2 - y1) / (x2 - x1)
	dx := new(big.Int).Sub(p2.x, p1.x)
	inv, err := ModInverse(dx, c.P)
	if err != nil {
		return Point{}, err
	}
	lambda := new(big.Int).Sub(p2.y, p1.y)
	lambda.Mul(lambda, inv)
	lambda.Mod(lambda, c.P)

	return c.chord(lambda, p1, p2.x), nil
}

// Double returns 2p.
func (c *CurveParams) Double(p Point) (Point, error) {
	if p.IsInfinity() {
		return Infinity(), nil
	}
	p = c.reduce(p)
	if p.y.Sign() == 0 {
		return Infinity(), nil
	}

	// λ = (3x² + a) / 2y
	num := new(big.Int).Mul(p.x, p.x)
	num.Mul(num, three)
	num.Add(num, c.A)
	den := new(big.Int).Mul(p.y, two)
	inv, err := ModInverse(den, c.P)
	if err != nil {
		return Point{}, err
	}
	lambda := num.Mul(num, inv)
	lambda.Mod(lambda, c.P)

	return c.chord(lambda, p, p.x), nil
}

// chord finishes an addition or doubling once the slope is known:
// x3 = λ² - x1 - x2, y3 = λ(x1 - x3) - y1.
func (c *CurveParams) chord(lambda *big.Int, p1 Point, x2 *big.Int) Point {
	x3 := new(big.Int).Mul(lambda, lambda)
	x3.Sub(x3, p1.x)
	x3.Sub(x3, x2)
	x3.Mod(x3, c.P)

	y3 := new(big.Int).Sub(p1.x, x3)
	y3.Mul(y3, lambda)
	y3.Sub(y3, p1.y)
	y3.Mod(y3, c.P)

	return Point{x: x3, y: y3}
}

// ScalarMult returns k·p using right-to-left double-and-add.  A negative k
// multiplies -p by |k|.
//
// The running time depends on the bits of k; this is not a constant-time
// implementation.
func (c *CurveParams) ScalarMult(k *big.Int, p Point) (Point, error) {
	if k.Sign() == 0 || p.IsInfinity() {
		return Infinity(), nil
	}
	if k.Sign() < 0 {
		return c.ScalarMult(new(big.Int).Neg(k), c.Negate(p))
	}

	result := Infinity()
	addend := p
	var err error
	for i := 0; i < k.BitLen(); i++ {
		if k.Bit(i) == 1 {
			if result, err = c.Add(result, addend); err != nil {
				return Point{}, err
			}
		}
		if addend, err = c.Double(addend); err != nil {
			return Point{}, err
		}
	}
	return result, nil
}

// ScalarBaseMult returns k·G.
func (c *CurveParams) ScalarBaseMult(k *big.Int) (Point, error) {
	return c.ScalarMult(k, c.Generator())
}
