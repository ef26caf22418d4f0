package ecdsap256

// ErrorKind identifies a kind of error.  It has full support for errors.Is and
// errors.As, so the caller can directly check against an error kind when
// determining the reason for an error.
type ErrorKind string

// These constants are used to identify a specific Error.
const (
	// ErrDivisionByZero is returned when a modular inverse of a value that is
	// congruent to zero is requested.
	ErrDivisionByZero = ErrorKind("ErrDivisionByZero")

	// ErrNoInverse is returned when the value and the modulus share a common
	// factor, so no multiplicative inverse exists.
	ErrNoInverse = ErrorKind("ErrNoInverse")

	// ErrInvalidModulus is returned when a modulus is not strictly positive.
	ErrInvalidModulus = ErrorKind("ErrInvalidModulus")

	// ErrRetryExhausted is returned when key generation or signing fails to
	// produce a usable value within the configured number of attempts.
	ErrRetryExhausted = ErrorKind("ErrRetryExhausted")

	// ErrRandomSource is returned when the randomness source fails.
	ErrRandomSource = ErrorKind("ErrRandomSource")

	// ErrInvalidPrivateKey is returned when a private scalar is outside
	// [1, n-2].
	ErrInvalidPrivateKey = ErrorKind("ErrInvalidPrivateKey")

	// ErrPointNotOnCurve is returned when a point does not satisfy the curve
	// equation or has coordinates outside [0, p).
	ErrPointNotOnCurve = ErrorKind("ErrPointNotOnCurve")

	// ErrInvalidCurve is returned when curve parameters are singular or the
	// generator is not on the curve.
	ErrInvalidCurve = ErrorKind("ErrInvalidCurve")

	// ErrDegenerateRelation is returned when a nonce relation cannot be solved
	// for the private key because the denominator vanishes.
	ErrDegenerateRelation = ErrorKind("ErrDegenerateRelation")

	// ErrNoNonceReuse is returned when an audit finds no pair of signatures
	// sharing a nonce.
	ErrNoNonceReuse = ErrorKind("ErrNoNonceReuse")

	// ErrUnknownDigest is returned when a digest name is not recognised.
	ErrUnknownDigest = ErrorKind("ErrUnknownDigest")

	// ErrInvalidEncoding is returned when a key, signature or bundle cannot be
	// decoded.
	ErrInvalidEncoding = ErrorKind("ErrInvalidEncoding")
)

// Error satisfies the error interface and prints human-readable errors.
func (e ErrorKind) Error() string {
	return string(e)
}

// Error identifies an error related to curve arithmetic or the signature
// protocol.  It has full support for errors.Is and errors.As, so the caller
// can ascertain the specific reason for the error by checking the underlying
// error.
type Error struct {
	Err         error
	Description string
}

// Error satisfies the error interface and prints human-readable errors.
func (e Error) Error() string {
	return e.Description
}

// Unwrap returns the underlying wrapped error.
func (e Error) Unwrap() error {
	return e.Err
}

// makeError creates an Error given a set of arguments.
func makeError(kind ErrorKind, desc string) Error {
	return Error{Err: kind, Description: desc}
}
