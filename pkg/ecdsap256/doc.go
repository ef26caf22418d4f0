// Package ecdsap256 implements ECDSA over the NIST P-256 curve on top of a
// small affine arithmetic layer written with math/big.
//
// The arithmetic (ModInverse, CurveParams.Add, Double and ScalarMult) is
// straightforward double-and-add and is not constant time.  It is meant for
// study, auditing and interoperability testing, not for protecting long-lived
// keys against side channels.
//
// # Quick Start
//
//	import "github.com/mahdiidarabi/ecdsa-p256/pkg/ecdsap256"
//
//	client := ecdsap256.NewClient()
//
//	kp, err := client.GenerateKeyPair()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	sig, err := client.Sign([]byte("hello"), kp.Private)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println(client.Verify([]byte("hello"), sig, kp.Public)) // true
//
// # Customization
//
// Every dependency of the signing protocol can be replaced:
//
//	client := ecdsap256.NewClient().
//	    WithDigest(ecdsap256.DigestSHA3_256).
//	    WithRandom(myRandomSource).
//	    WithLogger(zerolog.New(os.Stderr)).
//	    WithWorkers(8)
//
// A RandomSource only has to return uniform integers in a closed range, which
// makes it easy to pin the nonce in tests.
//
// # Auditing
//
// Signatures that share a nonce leak the private key.  AuditNonceReuse scans a
// set of records for equal r values and recovers the key, and
// RecoverPrivateKey solves the more general affine case k₂ = a·k₁ + b.
//
// When the relation is unknown, SearchNonceRelation tries CommonPatterns
// (counters, fixed steps, small multiples) and then a bounded range of (a, b)
// on a worker pool, confirming each candidate against the public key:
//
//	cfg := ecdsap256.DefaultSearchConfig()
//	cfg.BRange = [2]int64{-5000, 5000}
//	result, err := client.SearchNonceRelation(ctx, records, pub, cfg)
package ecdsap256
