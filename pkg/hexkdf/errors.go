package hexkdf

import (
	"errors"

	"github.com/dmitrymomot/proofengine/pkg/hexcodec"
	"github.com/dmitrymomot/proofengine/pkg/kdf"
)

// ErrorKind classifies failures of a derivation.
type ErrorKind int

const (
	Unknown ErrorKind = iota
	InvalidEncoding
	InvalidParams
	ComputationFailure
)

func (k ErrorKind) String() string {
	switch k {
	case InvalidEncoding:
		return "invalid_encoding"
	case InvalidParams:
		return "invalid_params"
	case ComputationFailure:
		return "computation_failure"
	default:
		return "unknown"
	}
}

// Kind returns the ErrorKind of err. Nil and foreign errors map to Unknown.
func Kind(err error) ErrorKind {
	switch {
	case err == nil:
		return Unknown
	case errors.Is(err, hexcodec.ErrInvalidEncoding):
		return InvalidEncoding
	case errors.Is(err, kdf.ErrInvalidParams):
		return InvalidParams
	case errors.Is(err, kdf.ErrComputationFailure):
		return ComputationFailure
	default:
		return Unknown
	}
}
