package ecdsap256

import (
	"encoding/json"
	"fmt"
	"math/big"
	"strings"

	"github.com/fxamacker/cbor/v2"
)

// Format selects the serialization of a Bundle.
type Format string

// Supported bundle formats.
const (
	FormatJSON Format = "json"
	FormatCBOR Format = "cbor"
)

// Bundle persists a public key together with signatures made under it.  All
// integers are hex strings without a 0x prefix.
type Bundle struct {
	Curve      string            `json:"curve" cbor:"1,keyasint"`
	Digest     Digest            `json:"digest" cbor:"2,keyasint"`
	PublicKey  BundleKey         `json:"public_key" cbor:"3,keyasint"`
	Signatures []BundleSignature `json:"signatures" cbor:"4,keyasint"`
}

// BundleKey is the hex encoding of a public point.
type BundleKey struct {
	X string `json:"x" cbor:"1,keyasint"`
	Y string `json:"y" cbor:"2,keyasint"`
}

// BundleSignature is one signed message in a Bundle.
type BundleSignature struct {
	Message string `json:"message" cbor:"1,keyasint"`
	R       string `json:"r" cbor:"2,keyasint"`
	S       string `json:"s" cbor:"3,keyasint"`
}

var cborEnc cbor.EncMode

func init() {
	var err error
	cborEnc, err = cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
}

// NewBundle starts a bundle for pub.
func NewBundle(pub *PublicKey, digest Digest) *Bundle {
	if digest == "" {
		digest = DigestSHA256
	}
	return &Bundle{
		Curve:  pub.Curve.Name,
		Digest: digest,
		PublicKey: BundleKey{
			X: hexInt(pub.Q.x),
			Y: hexInt(pub.Q.y),
		},
	}
}

// Add appends a signed message to b.
func (b *Bundle) Add(message []byte, sig *Signature) {
	b.Signatures = append(b.Signatures, BundleSignature{
		Message: string(message),
		R:       hexInt(sig.R),
		S:       hexInt(sig.S),
	})
}

// Key decodes the bundle's public key and checks it is on curve.
func (b *Bundle) Key(curve *CurveParams) (*PublicKey, error) {
	if b.Curve != "" && b.Curve != curve.Name {
		return nil, makeError(ErrInvalidEncoding, fmt.Sprintf("bundle is for curve %s, not %s", b.Curve, curve.Name))
	}
	x, err := unhexInt(b.PublicKey.X)
	if err != nil {
		return nil, err
	}
	y, err := unhexInt(b.PublicKey.Y)
	if err != nil {
		return nil, err
	}
	return NewPublicKey(curve, x, y)
}

// Records converts the bundle signatures into records, hashing each message
// with the bundle digest.
func (b *Bundle) Records(curve *CurveParams) ([]*Record, error) {
	records := make([]*Record, 0, len(b.Signatures))
	for i, bs := range b.Signatures {
		r, err := unhexInt(bs.R)
		if err != nil {
			return nil, fmt.Errorf("signature %d: %w", i, err)
		}
		s, err := unhexInt(bs.S)
		if err != nil {
			return nil, fmt.Errorf("signature %d: %w", i, err)
		}
		msg := []byte(bs.Message)
		records = append(records, &Record{
			Message: msg,
			Z:       b.Digest.HashToScalar(curve, msg),
			R:       r,
			S:       s,
		})
	}
	return records, nil
}

// EncodeBundle serializes b in the requested format.
func EncodeBundle(b *Bundle, format Format) ([]byte, error) {
	switch format {
	case FormatCBOR:
		return cborEnc.Marshal(b)
	case FormatJSON, "":
		return json.MarshalIndent(b, "", "  ")
	default:
		return nil, makeError(ErrInvalidEncoding, fmt.Sprintf("unknown bundle format %q", format))
	}
}

// DecodeBundle parses data produced by EncodeBundle.
func DecodeBundle(data []byte, format Format) (*Bundle, error) {
	var (
		b   Bundle
		err error
	)
	switch format {
	case FormatCBOR:
		err = cbor.Unmarshal(data, &b)
	case FormatJSON, "":
		err = json.Unmarshal(data, &b)
	default:
		return nil, makeError(ErrInvalidEncoding, fmt.Sprintf("unknown bundle format %q", format))
	}
	if err != nil {
		return nil, Error{Err: ErrInvalidEncoding, Description: fmt.Sprintf("failed to decode bundle: %v", err)}
	}
	if _, err := ParseDigest(string(b.Digest)); err != nil {
		return nil, err
	}
	return &b, nil
}

// FormatFromPath picks a format from a file extension (.cbor or anything else
// for JSON).
func FormatFromPath(path string) Format {
	if strings.HasSuffix(strings.ToLower(path), ".cbor") {
		return FormatCBOR
	}
	return FormatJSON
}

func hexInt(v *big.Int) string {
	return v.Text(16)
}

func unhexInt(s string) (*big.Int, error) {
	v, ok := new(big.Int).SetString(strings.TrimPrefix(s, "0x"), 16)
	if !ok || v.Sign() < 0 {
		return nil, makeError(ErrInvalidEncoding, fmt.Sprintf("invalid hex integer %q", s))
	}
	return v, nil
}
