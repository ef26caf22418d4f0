package ecdsap256

import (
	"fmt"
	"math/big"
)

// CurveParams holds the domain parameters of a short Weierstrass curve
// y² = x³ + ax + b over the prime field of order P, with generator G of order N.
//
// A CurveParams is never mutated once constructed and may be shared freely
// between goroutines.
type CurveParams struct {
	Name string
	P    *big.Int // Field prime
	A    *big.Int // Curve coefficient a
	B    *big.Int // Curve coefficient b
	Gx   *big.Int // Generator x-coordinate
	Gy   *big.Int // Generator y-coordinate
	N    *big.Int // Order of the generator
}

var p256 = &CurveParams{
	Name: "P-256",
	P:    mustHex("FFFFFFFF00000001000000000000000000000000FFFFFFFFFFFFFFFFFFFFFFFF"),
	A:    mustHex("FFFFFFFF00000001000000000000000000000000FFFFFFFFFFFFFFFFFFFFFFFC"),
	B:    mustHex("5AC635D8AA3A93E7B3EBBD55769886BC651D06B0CC53B0F63BCE3C3E27D2604B"),
	Gx:   mustHex("6B17D1F2E12C4247F8BCE6E563A440F277037D812DEB33A0F4A13945D898C296"),
	Gy:   mustHex("4FE342E2FE1A7F9B8EE7EB4A7C0F9E162BCE33576B315ECECBB6406837BF51F5"),
	N:    mustHex("FFFFFFFF00000000FFFFFFFFFFFFFFFFBCE6FAADA7179E84F3B9CAC2FC632551"),
}

// P256 returns the parameters of the NIST P-256 curve.
func P256() *CurveParams {
	return p256
}

func mustHex(s string) *big.Int {
	v, ok := new(big.Int).SetString(s, 16)
	if !ok {
		panic("ecdsap256: invalid hex constant " + s)
	}
	return v
}

// Generator returns the base point G.
func (c *CurveParams) Generator() Point {
	return NewPoint(c.Gx, c.Gy)
}

// ByteSize returns the number of bytes needed to hold a field element.
func (c *CurveParams) ByteSize() int {
	return (c.P.BitLen() + 7) / 8
}

// Validate checks that the curve is non-singular (4a³ + 27b² ≠ 0 mod p) and
// that the generator lies on it.
func (c *CurveParams) Validate() error {
	if c.P == nil || c.P.Sign() <= 0 || c.N == nil || c.N.Sign() <= 0 {
		return makeError(ErrInvalidCurve, "curve modulus and order must be positive")
	}

	a3 := new(big.Int).Exp(c.A, big.NewInt(3), c.P)
	a3.Lsh(a3, 2)
	b2 := new(big.Int).Exp(c.B, big.NewInt(2), c.P)
	b2.Mul(b2, big.NewInt(27))
	disc := a3.Add(a3, b2)
	if disc.Mod(disc, c.P).Sign() == 0 {
		return makeError(ErrInvalidCurve, fmt.Sprintf("curve %s is singular", c.Name))
	}

	if !c.IsOnCurve(c.Generator()) {
		return makeError(ErrInvalidCurve, fmt.Sprintf("generator of %s is not on the curve", c.Name))
	}
	return nil
}

// IsOnCurve reports whether p satisfies y² ≡ x³ + ax + b (mod P) with both
// coordinates in [0, P).  The point at infinity is on every curve.
func (c *CurveParams) IsOnCurve(p Point) bool {
	if p.IsInfinity() {
		return true
	}
	if p.x.Sign() < 0 || p.x.Cmp(c.P) >= 0 || p.y.Sign() < 0 || p.y.Cmp(c.P) >= 0 {
		return false
	}

	lhs := new(big.Int).Mul(p.y, p.y)
	lhs.Mod(lhs, c.P)

	rhs := new(big.Int).Mul(p.x, p.x)
	rhs.Mul(rhs, p.x)
	ax := new(big.Int).Mul(c.A, p.x)
	rhs.Add(rhs, ax)
	rhs.Add(rhs, c.B)
	rhs.Mod(rhs, c.P)

	return lhs.Cmp(rhs) == 0
}

// Point is an element of the curve group: either a finite affine point (x, y)
// or the point at infinity.  The zero value is the point at infinity.
type Point struct {
	x, y *big.Int
	inf  bool
}

// Infinity returns the group identity.
func Infinity() Point {
	return Point{inf: true}
}

// NewPoint returns the finite point (x, y).  The coordinates are copied but
// not reduced; use CurveParams.NewPoint for values from outside the package.
func NewPoint(x, y *big.Int) Point {
	return Point{x: new(big.Int).Set(x), y: new(big.Int).Set(y)}
}

// NewPoint returns the finite point (x mod P, y mod P).
func (c *CurveParams) NewPoint(x, y *big.Int) Point {
	return Point{x: new(big.Int).Mod(x, c.P), y: new(big.Int).Mod(y, c.P)}
}

// reduce returns p with both coordinates in [0, P).  Points that are already
// reduced are returned as is.
func (c *CurveParams) reduce(p Point) Point {
	if p.IsInfinity() {
		return p
	}
	if p.x.Sign() >= 0 && p.x.Cmp(c.P) < 0 && p.y.Sign() >= 0 && p.y.Cmp(c.P) < 0 {
		return p
	}
	return c.NewPoint(p.x, p.y)
}

// IsInfinity reports whether p is the point at infinity.
func (p Point) IsInfinity() bool {
	return p.inf || p.x == nil
}

// X returns a copy of the x-coordinate, or nil for the point at infinity.
func (p Point) X() *big.Int {
	if p.IsInfinity() {
		return nil
	}
	return new(big.Int).Set(p.x)
}

// Y returns a copy of the y-coordinate, or nil for the point at infinity.
func (p Point) Y() *big.Int {
	if p.IsInfinity() {
		return nil
	}
	return new(big.Int).Set(p.y)
}

// Equal reports whether p and q are the same group element.
func (p Point) Equal(q Point) bool {
	if p.IsInfinity() || q.IsInfinity() {
		return p.IsInfinity() == q.IsInfinity()
	}
	return p.x.Cmp(q.x) == 0 && p.y.Cmp(q.y) == 0
}

// String formats p as "(x, y)" in hex, or "∞".
func (p Point) String() string {
	if p.IsInfinity() {
		return "∞"
	}
	return fmt.Sprintf("(0x%s, 0x%s)", p.x.Text(16), p.y.Text(16))
}
