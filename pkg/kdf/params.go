package kdf

import (
	"errors"
	"fmt"
	"math"
	"math/bits"
)

const (
	// hLen is the HMAC-SHA256 output size used by the PBKDF2 stages.
	hLen = 32

	maxRP = 1 << 30
)

// Params are the scrypt cost parameters for a single derivation.
type Params struct {
	N      uint64 // CPU/memory cost, power of two
	R      uint32 // block size
	P      uint32 // parallelization
	KeyLen uint32 // derived key length in bytes
}

// ParamsFromLog2 builds Params from the exponent form of the cost factor.
func ParamsFromLog2(logN uint8, r, p, keyLen uint32) Params {
	var n uint64
	if logN < 64 {
		n = 1 << logN
	}
	return Params{N: n, R: r, P: p, KeyLen: keyLen}
}

// Log2 returns k such that n == 1<<k. It fails for 0, 1 and any n that is not
// an exact power of two.
func Log2(n uint64) (uint8, error) {
	if n < 2 || bits.OnesCount64(n) != 1 {
		return 0, errors.Join(ErrInvalidParams, ErrCostNotPowerOfTwo, fmt.Errorf("N=%d", n))
	}
	return uint8(bits.TrailingZeros64(n)), nil
}

// LogN is the exponent of N. It is only meaningful for validated params.
func (p Params) LogN() uint8 {
	return uint8(bits.TrailingZeros64(p.N))
}

// MemoryCost is the number of bytes a derivation allocates: the p blocks of
// the PBKDF2 output plus the N blocks of V and the two working blocks of
// ROMix, each 128·r bytes. It is only meaningful for validated params.
func (p Params) MemoryCost() uint64 {
	return 128 * uint64(p.R) * (p.N + uint64(p.P) + 2)
}

// Validate checks the parameters against RFC 7914 and the sizing limits of
// the underlying implementation. Every error wraps ErrInvalidParams.
func (p Params) Validate() error {
	logN, err := Log2(p.N)
	if err != nil {
		return err
	}
	if p.R == 0 {
		return invalid(ErrBlockSize, "r=0")
	}
	if p.P == 0 {
		return invalid(ErrParallelism, "p=0")
	}
	if p.KeyLen == 0 {
		return invalid(ErrKeyLength, "dklen=0")
	}

	r, par, n := uint64(p.R), uint64(p.P), p.N
	maxInt := uint64(math.MaxInt)

	// RFC 7914: N < 2^(128*r/8)
	if uint64(logN) >= 16*r {
		return invalid(ErrCostTooLarge, fmt.Sprintf("log2(N)=%d must be below 16*r=%d", logN, 16*r))
	}
	if r*par >= maxRP {
		return invalid(ErrParallelism, fmt.Sprintf("r*p=%d must be below 2^30", r*par))
	}
	// RFC 7914: p <= ((2^32-1) * hLen) / MFLen
	if par > (math.MaxUint32*hLen)/(128*r) {
		return invalid(ErrParallelism, fmt.Sprintf("p=%d too large for r=%d", par, r))
	}
	if r > maxInt/256 || r > maxInt/128/par {
		return invalid(ErrBlockSize, fmt.Sprintf("r=%d too large", r))
	}
	if n > maxInt/128/r {
		return invalid(ErrCostTooLarge, fmt.Sprintf("N=%d too large for r=%d", n, r))
	}
	return nil
}

func (p Params) String() string {
	return fmt.Sprintf("N=%d r=%d p=%d dklen=%d", p.N, p.R, p.P, p.KeyLen)
}

func invalid(kind error, detail string) error {
	return errors.Join(ErrInvalidParams, kind, errors.New(detail))
}
