package pow

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrymomot/proofengine/pkg/hexcodec"
	"github.com/dmitrymomot/proofengine/pkg/kdf"
)

// MaxDifficultyLevel bounds the mask to the length of a 64 byte key.
const MaxDifficultyLevel = 512

// Challenge is the decoded form of an issued puzzle.
type Challenge struct {
	N               uint32 `json:"N"`
	R               uint32 `json:"r"`
	P               uint32 `json:"p"`
	KeyLen          uint32 `json:"klen"`
	Preimage        string `json:"i"`
	Difficulty      string `json:"d"`
	DifficultyLevel int    `json:"dl"`
}

// Params returns the scrypt parameters of the challenge.
func (c Challenge) Params() kdf.Params {
	return kdf.Params{N: uint64(c.N), R: c.R, P: c.P, KeyLen: c.KeyLen}
}

// PreimageBytes decodes the base64 preimage.
func (c Challenge) PreimageBytes() ([]byte, error) {
	b, err := base64.StdEncoding.DecodeString(c.Preimage)
	if err != nil {
		return nil, errors.Join(ErrInvalidPreimage, err)
	}
	return b, nil
}

// EncodeChallenge renders c as base64 encoded JSON.
func EncodeChallenge(c Challenge) (string, error) {
	raw, err := json.Marshal(c)
	if err != nil {
		return "", errors.Join(ErrInvalidChallenge, err)
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}

// DecodeChallenge parses a base64 encoded JSON challenge and checks that its
// difficulty fields are consistent.
func DecodeChallenge(s string) (Challenge, error) {
	var c Challenge
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(s))
	if err != nil {
		return c, errors.Join(ErrInvalidChallenge, err)
	}
	if err := json.Unmarshal(raw, &c); err != nil {
		return c, errors.Join(ErrInvalidChallenge, err)
	}
	if c.Difficulty == "" {
		return c, errors.Join(ErrInvalidChallenge, errors.New("missing difficulty"))
	}
	if _, err := hexcodec.Decode(c.Difficulty, hexcodec.Strict); err != nil {
		return c, errors.Join(ErrInvalidChallenge, err)
	}
	if uint64(len(c.Difficulty)) > 2*uint64(c.KeyLen) {
		return c, errors.Join(ErrInvalidChallenge, fmt.Errorf("difficulty mask longer than key"))
	}
	return c, nil
}

// DifficultyMask returns the hex mask for level bits of difficulty: the
// leading level bits of the mask are zero, the rest are one.
func DifficultyMask(level int) (string, error) {
	if level < 1 || level > MaxDifficultyLevel {
		return "", errors.Join(ErrInvalidDifficulty, fmt.Errorf("level %d", level))
	}
	mask := make([]byte, (level+7)/8)
	for j := range mask {
		var b byte
		for k := range 8 {
			bit := j*8 + (7 - k)
			if bit+1 > level {
				b |= 1 << k
			}
		}
		mask[j] = b
	}
	return hexcodec.Encode(mask), nil
}

// Tail returns the suffix of hashHex that is compared against mask.
func Tail(hashHex, mask string) string {
	if len(mask) >= len(hashHex) {
		return hashHex
	}
	return hashHex[len(hashHex)-len(mask):]
}

// Meets reports whether the tail of hashHex is at or below mask.
// Both are lowercase hex, so string order equals numeric order.
func Meets(hashHex, mask string) bool {
	if len(hashHex) < len(mask) {
		return false
	}
	return Tail(hashHex, mask) <= mask
}

// NonceHex renders i as lowercase hex padded to an even number of digits.
func NonceHex(i uint64) string {
	s := strconv.FormatUint(i, 16)
	if len(s)%2 == 1 {
		s = "0" + s
	}
	return s
}
