package hexcodec

import (
	"errors"
	"fmt"
	"strings"
)

const alphabet = "0123456789abcdef"

// Policy selects how Decode treats malformed input.
type Policy int

const (
	// Strict fails on odd length or non-hex digits.
	Strict Policy = iota
	// Lenient substitutes 0x00 for malformed pairs and drops a trailing nibble.
	Lenient
)

func (p Policy) String() string {
	switch p {
	case Strict:
		return "strict"
	case Lenient:
		return "lenient"
	default:
		return fmt.Sprintf("policy(%d)", int(p))
	}
}

// ParsePolicy maps a config or flag value to a Policy. Empty input means Strict.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "strict":
		return Strict, nil
	case "lenient":
		return Lenient, nil
	default:
		return Strict, errors.Join(ErrUnknownPolicy, fmt.Errorf("%q", s))
	}
}

// Encode returns the lowercase hex representation of b.
func Encode(b []byte) string {
	var sb strings.Builder
	sb.Grow(len(b) * 2)
	for _, c := range b {
		sb.WriteByte(alphabet[c>>4])
		sb.WriteByte(alphabet[c&0x0f])
	}
	return sb.String()
}

// Decode converts hex text to bytes under the given policy.
// The result always has floor(len(s)/2) bytes when err is nil.
func Decode(s string, policy Policy) ([]byte, error) {
	if policy == Strict && len(s)%2 != 0 {
		return nil, errors.Join(ErrInvalidEncoding, ErrOddLength)
	}

	out := make([]byte, len(s)/2)
	for i := range out {
		hi, okHi := nibble(s[2*i])
		lo, okLo := nibble(s[2*i+1])
		if okHi && okLo {
			out[i] = hi<<4 | lo
			continue
		}
		if policy == Strict {
			return nil, errors.Join(ErrInvalidEncoding, ErrInvalidByte,
				fmt.Errorf("offset %d: %q", 2*i, s[2*i:2*i+2]))
		}
		// lenient: the whole pair collapses to zero
		out[i] = 0
	}
	return out, nil
}

// MustDecode is Decode with the Strict policy that panics on malformed input.
// Intended for constants and tests.
func MustDecode(s string) []byte {
	b, err := Decode(s, Strict)
	if err != nil {
		panic(err)
	}
	return b
}

func nibble(c byte) (byte, bool) {
	switch {
	case '0' <= c && c <= '9':
		return c - '0', true
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10, true
	case 'A' <= c && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}
