package ecdsap256

import (
	"errors"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModInverse(t *testing.T) {
	tests := []struct {
		name string
		k, m int64
		want int64
	}{
		{"small", 3, 11, 4},
		{"negative", -3, 11, 7},
		{"larger than modulus", 14, 11, 4},
		{"one", 1, 97, 1},
		{"minus one", -1, 97, 96},
		{"composite modulus", 7, 40, 23},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := ModInverse(big.NewInt(test.k), big.NewInt(test.m))
			require.NoError(t, err)
			assert.Equal(t, test.want, got.Int64())
		})
	}
}

func TestModInverseProperty(t *testing.T) {
	m := big.NewInt(101)
	for k := int64(1); k < 101; k++ {
		inv, err := ModInverse(big.NewInt(k), m)
		require.NoError(t, err)
		require.True(t, inv.Sign() >= 0 && inv.Cmp(m) < 0, "inverse of %d out of range", k)

		prod := new(big.Int).Mul(big.NewInt(k), inv)
		require.Equal(t, int64(1), prod.Mod(prod, m).Int64(), "k=%d", k)
	}

	// Large values modulo the P-256 order.
	n := P256().N
	for _, k := range []*big.Int{big.NewInt(2), new(big.Int).Sub(n, big.NewInt(1)), hexBig(t, "deadbeefcafebabe")} {
		inv, err := ModInverse(k, n)
		require.NoError(t, err)
		prod := new(big.Int).Mul(k, inv)
		require.Equal(t, 0, prod.Mod(prod, n).Cmp(big.NewInt(1)))
		require.Equal(t, 0, inv.Cmp(new(big.Int).ModInverse(k, n)))
	}
}

func TestModInverseErrors(t *testing.T) {
	tests := []struct {
		name string
		k, m int64
		want ErrorKind
	}{
		{"zero", 0, 11, ErrDivisionByZero},
		{"multiple of modulus", 22, 11, ErrDivisionByZero},
		{"negative multiple", -33, 11, ErrDivisionByZero},
		{"shared factor", 6, 9, ErrNoInverse},
		{"zero modulus", 3, 0, ErrInvalidModulus},
		{"negative modulus", 3, -7, ErrInvalidModulus},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := ModInverse(big.NewInt(test.k), big.NewInt(test.m))
			require.Error(t, err)
			assert.True(t, errors.Is(err, test.want), "got %v, want %v", err, test.want)
		})
	}
}

func TestPointAddIdentity(t *testing.T) {
	curve := P256()
	g := curve.Generator()

	sum, err := curve.Add(Infinity(), g)
	require.NoError(t, err)
	assert.True(t, sum.Equal(g))

	sum, err = curve.Add(g, Infinity())
	require.NoError(t, err)
	assert.True(t, sum.Equal(g))

	sum, err = curve.Add(Infinity(), Infinity())
	require.NoError(t, err)
	assert.True(t, sum.IsInfinity())

	// The zero value is the identity as well.
	sum, err = curve.Add(Point{}, g)
	require.NoError(t, err)
	assert.True(t, sum.Equal(g))
}

func TestPointAddInverse(t *testing.T) {
	curve := P256()
	g := curve.Generator()

	negY := new(big.Int).Sub(curve.P, g.Y())
	sum, err := curve.Add(g, NewPoint(g.X(), negY))
	require.NoError(t, err)
	assert.True(t, sum.IsInfinity())

	q, err := curve.ScalarBaseMult(big.NewInt(12345))
	require.NoError(t, err)
	sum, err = curve.Add(q, curve.Negate(q))
	require.NoError(t, err)
	assert.True(t, sum.IsInfinity())
}

func TestPointAddKnownMultiples(t *testing.T) {
	curve := P256()
	g := curve.Generator()

	twoG := NewPoint(
		hexBig(t, "7cf27b188d034f7e8a52380304b51ac3c08969e277f21b35a60b48fc47669978"),
		hexBig(t, "07775510db8ed040293d9ac69f7430dbba7dade63ce982299e04b79d227873d1"),
	)
	threeG := NewPoint(
		hexBig(t, "5ecbe4d1a6330a44c8f7ef951d4bf165e6c6b721efada985fb41661bc6e7fd6c"),
		hexBig(t, "8734640c4998ff7e374b06ce1a64a2ecd82ab036384fb83d9a79b127a27d5032"),
	)

	// Adding a point to itself must go through doubling.
	sum, err := curve.Add(g, g)
	require.NoError(t, err)
	assert.True(t, sum.Equal(twoG), "G+G = %s", sum)

	doubled, err := curve.Double(g)
	require.NoError(t, err)
	assert.True(t, doubled.Equal(twoG))

	sum, err = curve.Add(twoG, g)
	require.NoError(t, err)
	assert.True(t, sum.Equal(threeG), "2G+G = %s", sum)
	assert.True(t, curve.IsOnCurve(sum))
}

func TestAdd_UnreducedCoordinates(t *testing.T) {
	curve := P256()
	g := curve.Generator()
	twoG := NewPoint(
		hexBig(t, "7cf27b188d034f7e8a52380304b51ac3c08969e277f21b35a60b48fc47669978"),
		hexBig(t, "07775510db8ed040293d9ac69f7430dbba7dade63ce982299e04b79d227873d1"),
	)

	// (x, y+p) is G, not its inverse.
	shifted := NewPoint(g.X(), new(big.Int).Add(g.Y(), curve.P))
	sum, err := curve.Add(g, shifted)
	require.NoError(t, err)
	assert.True(t, sum.Equal(twoG), "G+G' = %s", sum)

	doubled, err := curve.Double(shifted)
	require.NoError(t, err)
	assert.True(t, doubled.Equal(twoG))

	assert.True(t, curve.Negate(shifted).Equal(curve.Negate(g)))

	reduced := curve.NewPoint(new(big.Int).Add(g.X(), curve.P), new(big.Int).Sub(g.Y(), curve.P))
	assert.True(t, reduced.Equal(g))
	assert.True(t, curve.IsOnCurve(reduced))

	toy := toyCurve()
	sum, err = toy.Add(toyPoint(5, 1), toyPoint(22, 18))
	require.NoError(t, err)
	assert.True(t, sum.Equal(toyPoint(6, 3)), "toy G+G' = %s", sum)
}

func TestToyCurveArithmetic(t *testing.T) {
	curve := toyCurve()
	require.NoError(t, curve.Validate())
	g := curve.Generator()

	// Multiples of G on y² = x³ + 2x + 2 over F₁₇.
	multiples := []Point{
		toyPoint(5, 1), toyPoint(6, 3), toyPoint(10, 6), toyPoint(3, 1),
		toyPoint(9, 16), toyPoint(16, 13), toyPoint(0, 6), toyPoint(13, 7),
		toyPoint(7, 6), toyPoint(7, 11), toyPoint(13, 10), toyPoint(0, 11),
		toyPoint(16, 4), toyPoint(9, 1), toyPoint(3, 16), toyPoint(10, 11),
		toyPoint(6, 14), toyPoint(5, 16),
	}

	acc := Infinity()
	for i, want := range multiples {
		var err error
		acc, err = curve.Add(acc, g)
		require.NoError(t, err)
		require.True(t, acc.Equal(want), "%dG: got %s want %s", i+1, acc, want)

		viaMult, err := curve.ScalarMult(big.NewInt(int64(i+1)), g)
		require.NoError(t, err)
		require.True(t, viaMult.Equal(want), "ScalarMult(%d): got %s want %s", i+1, viaMult, want)
	}

	// 19G is the identity.
	acc, err := curve.Add(acc, g)
	require.NoError(t, err)
	assert.True(t, acc.IsInfinity())

	// Vertical line between 7G and 12G.
	sum, err := curve.Add(toyPoint(0, 6), toyPoint(0, 11))
	require.NoError(t, err)
	assert.True(t, sum.IsInfinity())
}

func TestDoubleVerticalTangent(t *testing.T) {
	// y² = x³ + x over F₅ has the 2-torsion point (0, 0).
	curve := &CurveParams{
		Name: "toy5",
		P:    big.NewInt(5),
		A:    big.NewInt(1),
		B:    big.NewInt(0),
		Gx:   big.NewInt(0),
		Gy:   big.NewInt(0),
		N:    big.NewInt(2),
	}
	p := toyPoint(0, 0)
	require.True(t, curve.IsOnCurve(p))

	doubled, err := curve.Double(p)
	require.NoError(t, err)
	assert.True(t, doubled.IsInfinity())

	sum, err := curve.Add(p, p)
	require.NoError(t, err)
	assert.True(t, sum.IsInfinity())

	doubled, err = curve.Double(Infinity())
	require.NoError(t, err)
	assert.True(t, doubled.IsInfinity())
}

func TestScalarMultBoundaries(t *testing.T) {
	curve := P256()
	g := curve.Generator()

	res, err := curve.ScalarMult(big.NewInt(0), g)
	require.NoError(t, err)
	assert.True(t, res.IsInfinity(), "0·G")

	res, err = curve.ScalarMult(big.NewInt(42), Infinity())
	require.NoError(t, err)
	assert.True(t, res.IsInfinity(), "42·∞")

	res, err = curve.ScalarMult(big.NewInt(1), g)
	require.NoError(t, err)
	assert.True(t, res.Equal(g), "1·G")

	res, err = curve.ScalarMult(curve.N, g)
	require.NoError(t, err)
	assert.True(t, res.IsInfinity(), "n·G")

	nPlusOne := new(big.Int).Add(curve.N, big.NewInt(1))
	res, err = curve.ScalarMult(nPlusOne, g)
	require.NoError(t, err)
	assert.True(t, res.Equal(g), "(n+1)·G")

	nMinusOne := new(big.Int).Sub(curve.N, big.NewInt(1))
	res, err = curve.ScalarMult(nMinusOne, g)
	require.NoError(t, err)
	assert.True(t, res.Equal(curve.Negate(g)), "(n-1)·G")
}

func TestScalarMultNegative(t *testing.T) {
	curve := toyCurve()
	g := curve.Generator()

	res, err := curve.ScalarMult(big.NewInt(-1), g)
	require.NoError(t, err)
	assert.True(t, res.Equal(toyPoint(5, 16)))

	res, err = curve.ScalarMult(big.NewInt(-3), g)
	require.NoError(t, err)
	assert.True(t, res.Equal(toyPoint(10, 11)))

	big256 := P256()
	k := hexBig(t, "abcdef0123456789")
	pos, err := big256.ScalarBaseMult(k)
	require.NoError(t, err)
	neg, err := big256.ScalarBaseMult(new(big.Int).Neg(k))
	require.NoError(t, err)
	assert.True(t, neg.Equal(big256.Negate(pos)))
}

func TestScalarMultLinearity(t *testing.T) {
	curve := P256()
	a := hexBig(t, "1234567890abcdef1234567890abcdef")
	b := hexBig(t, "fedcba0987654321")

	aG, err := curve.ScalarBaseMult(a)
	require.NoError(t, err)
	bG, err := curve.ScalarBaseMult(b)
	require.NoError(t, err)
	sum, err := curve.Add(aG, bG)
	require.NoError(t, err)

	abG, err := curve.ScalarBaseMult(new(big.Int).Add(a, b))
	require.NoError(t, err)
	assert.True(t, sum.Equal(abG))
	assert.True(t, curve.IsOnCurve(sum))
}

func TestArithmeticPropagatesInverseErrors(t *testing.T) {
	// A composite "prime" makes the slope denominator non-invertible.
	curve := &CurveParams{
		Name: "broken",
		P:    big.NewInt(15),
		A:    big.NewInt(1),
		B:    big.NewInt(1),
		Gx:   big.NewInt(0),
		Gy:   big.NewInt(1),
		N:    big.NewInt(7),
	}

	// x2 - x1 = 3 shares a factor with 15.
	_, err := curve.Add(toyPoint(1, 2), toyPoint(4, 5))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoInverse))

	// 2y = 10 shares a factor with 15.
	_, err = curve.Double(toyPoint(2, 5))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoInverse))
}
