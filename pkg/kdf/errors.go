package kdf

import "errors"

var (
	// ErrInvalidParams is the umbrella error for parameters the primitive cannot accept.
	ErrInvalidParams = errors.New("invalid scrypt parameters")
	// ErrComputationFailure marks a failure while deriving with valid parameters.
	ErrComputationFailure = errors.New("scrypt computation failed")

	ErrCostNotPowerOfTwo = errors.New("cost factor N must be a power of two greater than 1")
	ErrCostTooLarge      = errors.New("cost factor N is too large for the block size")
	ErrBlockSize         = errors.New("block size r is out of range")
	ErrParallelism       = errors.New("parallelization p is out of range")
	ErrKeyLength         = errors.New("derived key length must be at least 1")
	ErrMemoryLimit       = errors.New("scratch area exceeds the memory limit")
)
