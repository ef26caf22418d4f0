package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"math/big"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/mahdiidarabi/ecdsa-p256/internal/config"
	"github.com/mahdiidarabi/ecdsa-p256/internal/logging"
	"github.com/mahdiidarabi/ecdsa-p256/pkg/ecdsap256"
)

const defaultMessage = "Hello, ECDSA! This is a secure message."

const usage = `Usage: ecdsa [command] [flags] [message...]

Commands:
  demo     generate a key, sign a message, verify it and a tampered copy (default)
  bundle   generate a key, sign messages and write a JSON or CBOR bundle
  verify   verify every signature in a file against a public key
  audit    look for reused or related nonces in a signature file and recover the key
`

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run dispatches to a command.  It is separate from main so the commands can
// be exercised from tests.
func run(args []string, out io.Writer) error {
	// Anything that is not a known command is the demo message.
	cmd := "demo"
	if len(args) > 0 {
		switch args[0] {
		case "demo", "bundle", "verify", "audit":
			cmd, args = args[0], args[1:]
		}
	}

	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
	fs.SetOutput(out)
	fs.Usage = func() {
		fmt.Fprint(out, usage)
		fs.PrintDefaults()
	}

	var (
		configFile = fs.String("config", "", "Path to config file (default: ./ecdsa.yaml if present)")
		digest     = fs.String("digest", "", "Message digest: sha256, sha3-256 or blake3")
		logLevel   = fs.String("log-level", "", "Log level: debug, info, warn, error")
		signatures = fs.String("signatures", "", "Path to signatures file (JSON, CSV or bundle)")
		format     = fs.String("format", "", "Input/output format: json, csv, cbor or bundle")
		publicKey  = fs.String("public-key", "", "Public key as uncompressed hex (04 || x || y)")
		output     = fs.String("out", "", "Output path for bundle (extension .cbor selects CBOR)")
		workers    = fs.Int("workers", -1, "Number of parallel verification workers (0 = auto-detect)")
		search     = fs.Bool("search", false, "audit: also search for related nonces k2 = a*k1 + b (needs --public-key)")
		maxB       = fs.Int64("max-b", 1000, "audit --search: largest |b| tried in the range search")
	)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		return err
	}
	if *digest != "" {
		cfg.Digest = *digest
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}
	if *format != "" {
		cfg.Format = *format
	}
	if *workers >= 0 {
		cfg.Workers = *workers
	}

	logger := logging.New(logging.Config{Level: cfg.Log.Level, JSON: cfg.Log.JSON})
	client, err := newClient(cfg, logger)
	if err != nil {
		return err
	}

	switch cmd {
	case "demo":
		message := defaultMessage
		if fs.NArg() > 0 {
			message = strings.Join(fs.Args(), " ")
		}
		return runDemo(out, client, message)

	case "bundle":
		if *output == "" {
			return fmt.Errorf("--out is required")
		}
		messages := fs.Args()
		if len(messages) == 0 {
			messages = []string{defaultMessage}
		}
		return runBundle(out, client, messages, *output)

	case "verify":
		if *signatures == "" {
			return fmt.Errorf("--signatures is required")
		}
		return runVerify(out, client, cfg.Format, *signatures, *publicKey)

	case "audit":
		if *signatures == "" {
			return fmt.Errorf("--signatures is required")
		}
		if *search {
			return runSearch(out, client, cfg.Format, *signatures, *publicKey, *maxB)
		}
		return runAudit(out, client, cfg.Format, *signatures, *publicKey)
	}
	return nil
}

func newClient(cfg config.Config, logger zerolog.Logger) (*ecdsap256.Client, error) {
	d, err := ecdsap256.ParseDigest(cfg.Digest)
	if err != nil {
		return nil, err
	}
	return ecdsap256.NewClient().
		WithDigest(d).
		WithLogger(logger).
		WithMaxRetries(cfg.MaxRetries).
		WithWorkers(cfg.Workers), nil
}

func printSeparator(out io.Writer, title string) {
	fmt.Fprintf(out, "\n%s %s %s\n", strings.Repeat("=", 20), title, strings.Repeat("=", 20))
}

func runDemo(out io.Writer, client *ecdsap256.Client, message string) error {
	fmt.Fprintln(out, "ECDSA Complete Workflow Demonstration")
	fmt.Fprintln(out, strings.Repeat("=", 60))

	printSeparator(out, "KEY GENERATION")
	kp, err := client.GenerateKeyPair()
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Private key: 0x%s\n", kp.Private.D.Text(16))
	fmt.Fprintf(out, "Public key:  %s\n", formatPublicKey(kp.Public))

	printSeparator(out, "SIGNATURE GENERATION")
	fmt.Fprintf(out, "Message to sign: %q (digest %s)\n", message, client.Digest())
	sig, err := client.Sign([]byte(message), kp.Private)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Signature (r, s): (0x%s, 0x%s)\n", sig.R.Text(16), sig.S.Text(16))

	printSeparator(out, "SIGNATURE VERIFICATION")
	if client.Verify([]byte(message), sig, kp.Public) {
		fmt.Fprintln(out, "✓ Signature is VALID")
	} else {
		fmt.Fprintln(out, "✗ Signature is INVALID (this should not happen)")
	}

	printSeparator(out, "TAMPERED MESSAGE VERIFICATION")
	tampered := message + " (tampered)"
	fmt.Fprintf(out, "Tampered message: %q\n", tampered)
	if client.Verify([]byte(tampered), sig, kp.Public) {
		fmt.Fprintln(out, "✓ Signature is VALID (this should not happen)")
	} else {
		fmt.Fprintln(out, "✗ Signature is INVALID (expected for a tampered message)")
	}
	return nil
}

func runBundle(out io.Writer, client *ecdsap256.Client, messages []string, path string) error {
	kp, err := client.GenerateKeyPair()
	if err != nil {
		return err
	}

	b := ecdsap256.NewBundle(kp.Public, client.Digest())
	for _, msg := range messages {
		sig, err := client.Sign([]byte(msg), kp.Private)
		if err != nil {
			return err
		}
		b.Add([]byte(msg), sig)
	}

	data, err := ecdsap256.EncodeBundle(b, ecdsap256.FormatFromPath(path))
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write bundle: %w", err)
	}

	fmt.Fprintf(out, "[+] Wrote %d signatures to %s\n", len(messages), path)
	fmt.Fprintf(out, "    Public key: %s\n", formatPublicKey(kp.Public))
	return nil
}

func runVerify(out io.Writer, client *ecdsap256.Client, format, source, publicKeyHex string) error {
	records, pub, err := loadRecords(client, format, source, publicKeyHex)
	if err != nil {
		return err
	}
	if pub == nil {
		return fmt.Errorf("--public-key is required for %s input", format)
	}

	report, err := client.VerifyBatch(context.Background(), records, pub)
	if err != nil {
		return err
	}
	for _, res := range report.Results {
		mark := "✓"
		if !res.Valid {
			mark = "✗"
		}
		fmt.Fprintf(out, "  %s signature %d\n", mark, res.Index)
	}
	fmt.Fprintf(out, "\n[+] %d valid, %d invalid\n", report.Valid, report.Invalid)
	if !report.AllValid() {
		return fmt.Errorf("%d of %d signatures failed verification", report.Invalid, len(records))
	}
	return nil
}

func runAudit(out io.Writer, client *ecdsap256.Client, format, source, publicKeyHex string) error {
	records, pub, err := loadRecords(client, format, source, publicKeyHex)
	if err != nil {
		return err
	}

	result, err := client.AuditNonceReuse(records, pub)
	if errors.Is(err, ecdsap256.ErrNoNonceReuse) {
		fmt.Fprintf(out, "[+] No reused nonces among %d signatures\n", len(records))
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "\n[!] Nonce reuse between signatures %d and %d\n", result.SignaturePair[0], result.SignaturePair[1])
	fmt.Fprintf(out, "    Private key: 0x%s\n", result.PrivateKey.Text(16))
	if result.Verified {
		fmt.Fprintln(out, "    ✓ Verified against public key!")
	}
	return nil
}

func runSearch(out io.Writer, client *ecdsap256.Client, format, source, publicKeyHex string, maxB int64) error {
	records, pub, err := loadRecords(client, format, source, publicKeyHex)
	if err != nil {
		return err
	}
	if pub == nil {
		return fmt.Errorf("--public-key is required for --search")
	}

	cfg := ecdsap256.DefaultSearchConfig()
	cfg.BRange = [2]int64{-maxB, maxB}
	result, err := client.SearchNonceRelation(context.Background(), records, pub, cfg)
	if errors.Is(err, ecdsap256.ErrNoNonceReuse) {
		fmt.Fprintf(out, "[+] No related nonces among %d signatures\n", len(records))
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "\n[!] Related nonces (%s) between signatures %d and %d\n", result.Pattern, result.SignaturePair[0], result.SignaturePair[1])
	fmt.Fprintf(out, "    k2 = %s*k1 + %s\n", result.Relation.A, result.Relation.B)
	fmt.Fprintf(out, "    Private key: 0x%s\n", result.PrivateKey.Text(16))
	fmt.Fprintln(out, "    ✓ Verified against public key!")
	return nil
}

// loadRecords reads records from source.  Bundles carry their own public key,
// which is used unless one was given explicitly.
func loadRecords(client *ecdsap256.Client, format, source, publicKeyHex string) ([]*ecdsap256.Record, *ecdsap256.PublicKey, error) {
	curve := client.Curve()

	var pub *ecdsap256.PublicKey
	if publicKeyHex != "" {
		var err error
		if pub, err = parsePublicKey(curve, publicKeyHex); err != nil {
			return nil, nil, err
		}
	}

	switch strings.ToLower(format) {
	case "csv":
		records, err := (&ecdsap256.CSVParser{Digest: client.Digest(), Curve: curve}).ParseSignatures(source)
		return records, pub, err

	case "bundle", "cbor":
		data, err := os.ReadFile(source)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read bundle: %w", err)
		}
		b, err := ecdsap256.DecodeBundle(data, ecdsap256.FormatFromPath(source))
		if err != nil {
			return nil, nil, err
		}
		if pub == nil {
			if pub, err = b.Key(curve); err != nil {
				return nil, nil, err
			}
		}
		records, err := b.Records(curve)
		return records, pub, err

	default:
		records, err := (&ecdsap256.JSONParser{Digest: client.Digest(), Curve: curve}).ParseSignatures(source)
		return records, pub, err
	}
}

// parsePublicKey decodes "04 || x || y" hex into a public key on curve.
func parsePublicKey(curve *ecdsap256.CurveParams, s string) (*ecdsap256.PublicKey, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "0x")
	size := curve.ByteSize() * 2
	if len(s) != 2+2*size || !strings.HasPrefix(s, "04") {
		return nil, fmt.Errorf("public key must be %d hex characters starting with 04", 2+2*size)
	}
	x, okX := new(big.Int).SetString(s[2:2+size], 16)
	y, okY := new(big.Int).SetString(s[2+size:], 16)
	if !okX || !okY {
		return nil, fmt.Errorf("public key is not valid hex")
	}
	return ecdsap256.NewPublicKey(curve, x, y)
}

func formatPublicKey(pub *ecdsap256.PublicKey) string {
	size := pub.Curve.ByteSize()
	buf := make([]byte, 1+2*size)
	buf[0] = 4
	pub.X().FillBytes(buf[1 : 1+size])
	pub.Y().FillBytes(buf[1+size:])
	return fmt.Sprintf("%x", buf)
}
