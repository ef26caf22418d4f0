package ecdsap256

import (
	"encoding/json"
	"errors"
	"math/big"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// fixturesDir returns the directory holding the shared test fixtures.
func fixturesDir() string {
	return filepath.Join("..", "..", "fixtures")
}

type testKeyInfo struct {
	PrivateKey   string `json:"private_key"`
	PublicKeyHex string `json:"public_key_hex"`
}

// loadTestKey reads fixtures/test_key_info.json and returns the key pair it
// describes.
func loadTestKey(t *testing.T) (*PrivateKey, *PublicKey) {
	t.Helper()

	data, err := os.ReadFile(filepath.Join(fixturesDir(), "test_key_info.json"))
	require.NoError(t, err)

	var info testKeyInfo
	require.NoError(t, json.Unmarshal(data, &info))

	d, ok := new(big.Int).SetString(info.PrivateKey, 10)
	require.True(t, ok, "private key is not decimal")

	priv, err := NewPrivateKey(P256(), d)
	require.NoError(t, err)

	hexKey := strings.TrimPrefix(info.PublicKeyHex, "04")
	x, ok := new(big.Int).SetString(hexKey[:64], 16)
	require.True(t, ok)
	y, ok := new(big.Int).SetString(hexKey[64:], 16)
	require.True(t, ok)
	pub, err := NewPublicKey(P256(), x, y)
	require.NoError(t, err)

	require.True(t, priv.Public().Equal(pub), "fixture public key does not match private key")
	return priv, pub
}

// loadTestRecords parses a JSON fixture.
func loadTestRecords(t *testing.T, name string) []*Record {
	t.Helper()
	records, err := (&JSONParser{}).ParseSignatures(filepath.Join(fixturesDir(), name))
	require.NoError(t, err)
	return records
}

// fixedSource returns the queued values in order and then repeats the last
// one forever.  It ignores the requested range so tests can feed out-of-range
// values too.
type fixedSource struct {
	mu     sync.Mutex
	values []*big.Int
	calls  int
}

func newFixedSource(values ...*big.Int) *fixedSource {
	return &fixedSource{values: values}
}

func (s *fixedSource) Int(lo, hi *big.Int) (*big.Int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.calls
	if i >= len(s.values) {
		i = len(s.values) - 1
	}
	s.calls++
	return new(big.Int).Set(s.values[i]), nil
}

func (s *fixedSource) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// failingSource always fails.
type failingSource struct{}

func (failingSource) Int(lo, hi *big.Int) (*big.Int, error) {
	return nil, errors.New("entropy pool drained")
}

func hexBig(t *testing.T, s string) *big.Int {
	t.Helper()
	v, ok := new(big.Int).SetString(s, 16)
	require.True(t, ok, "bad hex %q", s)
	return v
}

// toyCurve is y² = x³ + 2x + 2 over F₁₇ with G = (5, 1) of order 19.
func toyCurve() *CurveParams {
	return &CurveParams{
		Name: "toy17",
		P:    big.NewInt(17),
		A:    big.NewInt(2),
		B:    big.NewInt(2),
		Gx:   big.NewInt(5),
		Gy:   big.NewInt(1),
		N:    big.NewInt(19),
	}
}

func toyPoint(x, y int64) Point {
	return NewPoint(big.NewInt(x), big.NewInt(y))
}
