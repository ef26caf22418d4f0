package ecdsap256

import (
	"crypto/sha256"
	"fmt"
	"hash"
	"math/big"
	"strings"

	"github.com/zeebo/blake3"
	"golang.org/x/crypto/sha3"
)

// Digest selects the 256-bit hash function used to turn a message into a
// scalar.  Signer and verifier must agree on it.
type Digest string

// Supported digests.
const (
	DigestSHA256   Digest = "sha256"
	DigestSHA3_256 Digest = "sha3-256"
	DigestBLAKE3   Digest = "blake3"
)

// ParseDigest returns the Digest with the given name.  Matching is case
// insensitive and the empty string selects SHA-256.
func ParseDigest(name string) (Digest, error) {
	switch d := Digest(strings.ToLower(strings.TrimSpace(name))); d {
	case "", DigestSHA256:
		return DigestSHA256, nil
	case DigestSHA3_256, DigestBLAKE3:
		return d, nil
	default:
		return "", makeError(ErrUnknownDigest, fmt.Sprintf("unknown digest %q", name))
	}
}

func (d Digest) newHash() hash.Hash {
	switch d {
	case DigestSHA3_256:
		return sha3.New256()
	case DigestBLAKE3:
		return blake3.New()
	default:
		return sha256.New()
	}
}

// Sum returns the raw digest of message.
func (d Digest) Sum(message []byte) []byte {
	h := d.newHash()
	h.Write(message)
	return h.Sum(nil)
}

// HashToScalar hashes message, reads the digest as a big-endian integer and
// reduces it modulo the group order of curve.
func (d Digest) HashToScalar(curve *CurveParams, message []byte) *big.Int {
	z := new(big.Int).SetBytes(d.Sum(message))
	return z.Mod(z, curve.N)
}

// HashToScalar hashes message with SHA-256 and returns it as an integer mod n
// of P-256.
func HashToScalar(message []byte) *big.Int {
	return DigestSHA256.HashToScalar(p256, message)
}
