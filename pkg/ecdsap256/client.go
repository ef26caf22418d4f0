package ecdsap256

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// Client provides a high-level API over a curve, a randomness source and a
// digest.  A Client is safe for concurrent use once configured, provided its
// RandomSource is.
type Client struct {
	curve      *CurveParams
	rng        RandomSource
	digest     Digest
	log        zerolog.Logger
	maxRetries int
	workers    int
	parser     SignatureParser
}

// NewClient creates a new client with default settings: P-256, crypto/rand,
// SHA-256, no logging.
func NewClient() *Client {
	return &Client{
		curve:      p256,
		rng:        CryptoSource{},
		digest:     DigestSHA256,
		log:        zerolog.Nop(),
		maxRetries: DefaultMaxRetries,
		parser:     &JSONParser{},
	}
}

// WithCurve sets the curve parameters.
func (c *Client) WithCurve(curve *CurveParams) *Client {
	c.curve = curve
	return c
}

// WithRandom sets the randomness source used for keys and nonces.
func (c *Client) WithRandom(rng RandomSource) *Client {
	c.rng = rng
	return c
}

// WithDigest sets the message digest.
func (c *Client) WithDigest(d Digest) *Client {
	c.digest = d
	return c
}

// WithLogger sets the logger.
func (c *Client) WithLogger(log zerolog.Logger) *Client {
	c.log = log
	return c
}

// WithMaxRetries bounds the redraw loops of key generation and signing.
func (c *Client) WithMaxRetries(n int) *Client {
	c.maxRetries = n
	return c
}

// WithWorkers sets the parallelism of batch verification (0 = NumCPU).
func (c *Client) WithWorkers(n int) *Client {
	c.workers = n
	return c
}

// WithParser sets the parser used by VerifyFile and AuditFile.
func (c *Client) WithParser(parser SignatureParser) *Client {
	c.parser = parser
	return c
}

// Curve returns the configured curve.
func (c *Client) Curve() *CurveParams {
	return c.curve
}

// Digest returns the configured digest.
func (c *Client) Digest() Digest {
	return c.digest
}

// GenerateKeyPair creates a new key pair.
func (c *Client) GenerateKeyPair() (*KeyPair, error) {
	kp, err := GenerateKeyPair(c.curve, c.rng, c.maxRetries)
	if err != nil {
		return nil, fmt.Errorf("failed to generate key pair: %w", err)
	}
	c.log.Debug().Str("curve", c.curve.Name).Msg("generated key pair")
	return kp, nil
}

// Sign signs message with priv.
func (c *Client) Sign(message []byte, priv *PrivateKey) (*Signature, error) {
	if priv == nil || priv.D == nil {
		return nil, makeError(ErrInvalidPrivateKey, "private key is nil")
	}
	z := c.digest.HashToScalar(c.curve, message)
	sig, err := signHash(c.curve, z, priv.D, c.rng, c.maxRetries, c.log)
	if err != nil {
		return nil, fmt.Errorf("failed to sign message: %w", err)
	}
	c.log.Debug().Str("digest", string(c.digest)).Int("message_len", len(message)).Msg("signed message")
	return sig, nil
}

// Verify reports whether sig is valid for message under pub.
func (c *Client) Verify(message []byte, sig *Signature, pub *PublicKey) bool {
	ok := Verify(c.curve, c.digest, message, sig, pub)
	c.log.Debug().Bool("valid", ok).Msg("verified signature")
	return ok
}

// VerifyBatch verifies records in parallel against pub.
func (c *Client) VerifyBatch(ctx context.Context, records []*Record, pub *PublicKey) (*BatchReport, error) {
	report, err := verifyBatch(ctx, c.curve, records, pub, c.workers)
	if err != nil {
		return nil, fmt.Errorf("batch verification aborted: %w", err)
	}
	c.log.Info().
		Int("records", len(records)).
		Int("valid", report.Valid).
		Int("invalid", report.Invalid).
		Msg("batch verification finished")
	return report, nil
}

// VerifyFile parses records from source with the configured parser and
// verifies them against pub.
func (c *Client) VerifyFile(ctx context.Context, source string, pub *PublicKey) (*BatchReport, error) {
	records, err := c.parser.ParseSignatures(source)
	if err != nil {
		return nil, fmt.Errorf("failed to parse signatures: %w", err)
	}
	return c.VerifyBatch(ctx, records, pub)
}

// AuditNonceReuse searches records for a reused nonce and recovers the
// private key if one is found.  pub is optional.
func (c *Client) AuditNonceReuse(records []*Record, pub *PublicKey) (*RecoveryResult, error) {
	if len(records) < 2 {
		return nil, fmt.Errorf("need at least 2 signatures, got %d", len(records))
	}
	result, err := AuditNonceReuse(c.curve, records, pub)
	if err != nil {
		return nil, err
	}
	c.log.Warn().
		Int("first", result.SignaturePair[0]).
		Int("second", result.SignaturePair[1]).
		Bool("verified", result.Verified).
		Msg("nonce reuse detected")
	return result, nil
}

// AuditFile parses records from source and audits them for nonce reuse.
func (c *Client) AuditFile(source string, pub *PublicKey) (*RecoveryResult, error) {
	records, err := c.parser.ParseSignatures(source)
	if err != nil {
		return nil, fmt.Errorf("failed to parse signatures: %w", err)
	}
	return c.AuditNonceReuse(records, pub)
}

// SearchNonceRelation audits records for nonces related by k2 = a·k1 + b,
// using the client's worker count unless cfg sets one.
func (c *Client) SearchNonceRelation(ctx context.Context, records []*Record, pub *PublicKey, cfg SearchConfig) (*RecoveryResult, error) {
	if cfg.Workers == 0 {
		cfg.Workers = c.workers
	}
	result, err := SearchNonceRelation(ctx, c.curve, records, pub, cfg, c.log)
	if err != nil {
		return nil, err
	}
	c.log.Warn().
		Int("first", result.SignaturePair[0]).
		Int("second", result.SignaturePair[1]).
		Str("pattern", result.Pattern).
		Str("a", result.Relation.A.String()).
		Str("b", result.Relation.B.String()).
		Msg("related nonces detected")
	return result, nil
}
