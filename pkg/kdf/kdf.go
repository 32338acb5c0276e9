package kdf

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/scrypt"
)

// Option configures a single derivation.
type Option func(*options)

// DefaultMaxMemory is the allocation cap applied by callers that do not pick
// their own. It admits the RFC 7914 interactive parameters (N=2^14, r=8)
// with ample headroom.
const DefaultMaxMemory uint64 = 256 << 20

type options struct {
	maxMemory uint64
}

// WithMaxMemory caps the bytes a derivation may allocate, as reported by
// Params.MemoryCost. Zero disables the cap.
func WithMaxMemory(bytes uint64) Option {
	return func(o *options) { o.maxMemory = bytes }
}

// Derive computes the scrypt key of p.KeyLen bytes for password and salt.
// The output is deterministic for identical inputs.
//
// Derive applies no cap unless WithMaxMemory is given. An allocation the
// runtime cannot satisfy is a fatal error, not a panic, so the cap is the only
// protection against oversized parameters from untrusted input.
func Derive(password, salt []byte, p Params, opts ...Option) (key []byte, err error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}
	if o.maxMemory > 0 && p.MemoryCost() > o.maxMemory {
		return nil, errors.Join(ErrComputationFailure, ErrMemoryLimit,
			fmt.Errorf("need %d bytes, limit %d", p.MemoryCost(), o.maxMemory))
	}

	// Validate mirrors every check in scrypt.Key; recover only guards against
	// an unexpected panic in the primitive.
	defer func() {
		if rec := recover(); rec != nil {
			key = nil
			err = errors.Join(ErrComputationFailure, fmt.Errorf("%v", rec))
		}
	}()

	key, err = scrypt.Key(password, salt, int(p.N), int(p.R), int(p.P), int(p.KeyLen))
	if err != nil {
		return nil, errors.Join(ErrComputationFailure, err)
	}
	if len(key) != int(p.KeyLen) {
		return nil, errors.Join(ErrComputationFailure,
			fmt.Errorf("expected %d bytes, got %d", p.KeyLen, len(key)))
	}
	return key, nil
}
