package hexcodec

import "errors"

var (
	// ErrInvalidEncoding is the umbrella error for malformed hex input.
	ErrInvalidEncoding = errors.New("invalid hex encoding")

	ErrOddLength   = errors.New("odd length hex string")
	ErrInvalidByte = errors.New("invalid hex digit")

	ErrUnknownPolicy = errors.New("unknown hex decoding policy")
)
