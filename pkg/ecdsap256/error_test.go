package ecdsap256

import (
	"errors"
	"fmt"
	"testing"
)

// TestErrorKindStringer tests the stringized output for the ErrorKind type.
func TestErrorKindStringer(t *testing.T) {
	tests := []struct {
		in   ErrorKind
		want string
	}{
		{ErrDivisionByZero, "ErrDivisionByZero"},
		{ErrNoInverse, "ErrNoInverse"},
		{ErrInvalidModulus, "ErrInvalidModulus"},
		{ErrRetryExhausted, "ErrRetryExhausted"},
		{ErrRandomSource, "ErrRandomSource"},
		{ErrInvalidPrivateKey, "ErrInvalidPrivateKey"},
		{ErrPointNotOnCurve, "ErrPointNotOnCurve"},
		{ErrInvalidCurve, "ErrInvalidCurve"},
		{ErrDegenerateRelation, "ErrDegenerateRelation"},
		{ErrNoNonceReuse, "ErrNoNonceReuse"},
		{ErrUnknownDigest, "ErrUnknownDigest"},
		{ErrInvalidEncoding, "ErrInvalidEncoding"},
	}

	for i, test := range tests {
		result := test.in.Error()
		if result != test.want {
			t.Errorf("#%d: got: %s want: %s", i, result, test.want)
			continue
		}
	}
}

// TestError tests the error output for the Error type.
func TestError(t *testing.T) {
	tests := []struct {
		in   Error
		want string
	}{{
		Error{Description: "some error"},
		"some error",
	}, {
		Error{Description: "human-readable error"},
		"human-readable error",
	}}

	for i, test := range tests {
		result := test.in.Error()
		if result != test.want {
			t.Errorf("#%d: got: %s want: %s", i, result, test.want)
			continue
		}
	}
}

// TestErrorKindIsAs ensures both ErrorKind and Error can be identified as
// being a specific error kind via errors.Is and unwrapped via errors.As.
func TestErrorKindIsAs(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		target    error
		wantMatch bool
		wantAs    ErrorKind
	}{{
		name:      "ErrNoInverse == ErrNoInverse",
		err:       ErrNoInverse,
		target:    ErrNoInverse,
		wantMatch: true,
		wantAs:    ErrNoInverse,
	}, {
		name:      "Error.ErrNoInverse == ErrNoInverse",
		err:       makeError(ErrNoInverse, ""),
		target:    ErrNoInverse,
		wantMatch: true,
		wantAs:    ErrNoInverse,
	}, {
		name:      "Error.ErrNoInverse == Error.ErrNoInverse",
		err:       makeError(ErrNoInverse, ""),
		target:    makeError(ErrNoInverse, ""),
		wantMatch: true,
		wantAs:    ErrNoInverse,
	}, {
		name:      "wrapped Error.ErrRetryExhausted == ErrRetryExhausted",
		err:       fmt.Errorf("failed to sign message: %w", makeError(ErrRetryExhausted, "")),
		target:    ErrRetryExhausted,
		wantMatch: true,
		wantAs:    ErrRetryExhausted,
	}, {
		name:      "ErrNoInverse != ErrDivisionByZero",
		err:       ErrNoInverse,
		target:    ErrDivisionByZero,
		wantMatch: false,
		wantAs:    ErrNoInverse,
	}, {
		name:      "Error.ErrNoInverse != ErrDivisionByZero",
		err:       makeError(ErrNoInverse, ""),
		target:    ErrDivisionByZero,
		wantMatch: false,
		wantAs:    ErrNoInverse,
	}, {
		name:      "Error.ErrNoInverse != Error.ErrDivisionByZero",
		err:       makeError(ErrNoInverse, ""),
		target:    makeError(ErrDivisionByZero, ""),
		wantMatch: false,
		wantAs:    ErrNoInverse,
	}}

	for _, test := range tests {
		// Ensure the error matches or not depending on the expected result.
		result := errors.Is(test.err, test.target)
		if result != test.wantMatch {
			t.Errorf("%s: incorrect error identification -- got %v, want %v",
				test.name, result, test.wantMatch)
			continue
		}

		// Ensure the underlying error kind can be unwrapped and is the
		// expected kind.
		var kind ErrorKind
		if !errors.As(test.err, &kind) {
			t.Errorf("%s: unable to unwrap to error kind", test.name)
			continue
		}
		if kind != test.wantAs {
			t.Errorf("%s: unexpected unwrapped error kind -- got %v, want %v",
				test.name, kind, test.wantAs)
			continue
		}
	}
}
