package hexkdf

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/dmitrymomot/proofengine/pkg/hexcodec"
	"github.com/dmitrymomot/proofengine/pkg/kdf"
	"github.com/dmitrymomot/proofengine/pkg/logger"
)

var defaultDeriver = New()

// Scrypt derives a key with the strict hex policy and the default memory cap
// and returns it as lowercase hex of length 2*dklen.
func Scrypt(passwordHex, saltHex string, n, r, p, dklen uint32) (string, error) {
	return defaultDeriver.Scrypt(passwordHex, saltHex, n, r, p, dklen)
}

// Deriver runs hex encoded scrypt derivations with fixed options.
type Deriver struct {
	policy    hexcodec.Policy
	maxMemory uint64
	logger    *slog.Logger
}

// Option configures a Deriver.
type Option func(*Deriver)

// WithPolicy selects the hex decoding policy for password and salt.
func WithPolicy(p hexcodec.Policy) Option {
	return func(d *Deriver) { d.policy = p }
}

// WithMaxMemory caps the bytes a derivation may allocate. Defaults to
// kdf.DefaultMaxMemory; zero removes the cap.
func WithMaxMemory(bytes uint64) Option {
	return func(d *Deriver) { d.maxMemory = bytes }
}

// WithLogger sets the logger used for debug traces and failures.
func WithLogger(l *slog.Logger) Option {
	return func(d *Deriver) {
		if l != nil {
			d.logger = l
		}
	}
}

// New returns a Deriver. Without options it uses the strict policy,
// kdf.DefaultMaxMemory and a discarding logger.
func New(opts ...Option) *Deriver {
	d := &Deriver{
		policy:    hexcodec.Strict,
		maxMemory: kdf.DefaultMaxMemory,
		logger:    logger.Discard(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Policy reports the hex decoding policy in effect.
func (d *Deriver) Policy() hexcodec.Policy {
	return d.policy
}

// Scrypt decodes password and salt, derives dklen bytes and returns them hex encoded.
func (d *Deriver) Scrypt(passwordHex, saltHex string, n, r, p, dklen uint32) (string, error) {
	password, err := hexcodec.Decode(passwordHex, d.policy)
	if err != nil {
		return "", fmt.Errorf("password: %w", err)
	}
	salt, err := hexcodec.Decode(saltHex, d.policy)
	if err != nil {
		return "", fmt.Errorf("salt: %w", err)
	}
	return d.Derive(password, salt, kdf.Params{N: uint64(n), R: r, P: p, KeyLen: dklen})
}

// Derive runs scrypt on raw bytes and returns the key hex encoded.
func (d *Deriver) Derive(password, salt []byte, params kdf.Params) (string, error) {
	start := time.Now()

	key, err := kdf.Derive(password, salt, params, kdf.WithMaxMemory(d.maxMemory))
	if err != nil {
		d.logger.Debug("scrypt derivation failed",
			logger.Params(params),
			slog.String("kind", Kind(err).String()),
			logger.Error(err),
		)
		return "", err
	}

	d.logger.Debug("scrypt derivation done",
		logger.Params(params),
		logger.Duration(time.Since(start)),
	)
	return hexcodec.Encode(key), nil
}

// MustScrypt is Scrypt that panics on error. Intended for tests and fixtures.
func MustScrypt(passwordHex, saltHex string, n, r, p, dklen uint32) string {
	key, err := Scrypt(passwordHex, saltHex, n, r, p, dklen)
	if err != nil {
		panic(fmt.Sprintf("hexkdf: %v", err))
	}
	return key
}
