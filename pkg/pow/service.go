package pow

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/dmitrymomot/proofengine/pkg/hexcodec"
	"github.com/dmitrymomot/proofengine/pkg/hexkdf"
	"github.com/dmitrymomot/proofengine/pkg/kdf"
	"github.com/dmitrymomot/proofengine/pkg/logger"
)

const (
	DefaultN               = 16384
	DefaultR               = 8
	DefaultP               = 1
	DefaultKeyLen          = 16
	DefaultDifficultyLevel = 8
	DefaultBatchSize       = 10
	DefaultPreimageLength  = 8
	DefaultTTL             = 5 * time.Minute
)

// Result describes a successful verification.
type Result struct {
	Hash       string
	Tail       string
	Difficulty string
	Duration   time.Duration
}

// Service issues challenges and verifies their solutions.
type Service struct {
	store          Store
	params         kdf.Params
	level          int
	batchSize      int
	preimageLength int
	ttl            time.Duration
	random         io.Reader
	deriver        *hexkdf.Deriver
	logger         *slog.Logger
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithParams sets the scrypt parameters embedded in issued challenges.
func WithParams(p kdf.Params) ServiceOption {
	return func(s *Service) { s.params = p }
}

// WithDifficultyLevel sets the number of zero bits required at the end of the hash.
func WithDifficultyLevel(level int) ServiceOption {
	return func(s *Service) { s.level = level }
}

// WithBatchSize sets how many challenges Issue returns per call.
func WithBatchSize(n int) ServiceOption {
	return func(s *Service) { s.batchSize = n }
}

// WithPreimageLength sets the random preimage size in bytes. Verify rejects
// challenges whose preimage has a different length.
func WithPreimageLength(n int) ServiceOption {
	return func(s *Service) { s.preimageLength = n }
}

// WithTTL sets how long an issued challenge stays redeemable.
func WithTTL(ttl time.Duration) ServiceOption {
	return func(s *Service) { s.ttl = ttl }
}

// WithRandom overrides the preimage entropy source. Intended for tests.
func WithRandom(r io.Reader) ServiceOption {
	return func(s *Service) {
		if r != nil {
			s.random = r
		}
	}
}

// WithDeriver sets the hexkdf deriver used to check solutions.
func WithDeriver(d *hexkdf.Deriver) ServiceOption {
	return func(s *Service) {
		if d != nil {
			s.deriver = d
		}
	}
}

// WithLogger sets the logger for issue and verify events. Nil is ignored.
func WithLogger(l *slog.Logger) ServiceOption {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewService creates a Service. A nil store disables the issued-challenge
// check in Verify, so any well-formed challenge is accepted.
func NewService(store Store, opts ...ServiceOption) *Service {
	s := &Service{
		store:          store,
		params:         kdf.Params{N: DefaultN, R: DefaultR, P: DefaultP, KeyLen: DefaultKeyLen},
		level:          DefaultDifficultyLevel,
		batchSize:      DefaultBatchSize,
		preimageLength: DefaultPreimageLength,
		ttl:            DefaultTTL,
		random:         rand.Reader,
		deriver:        hexkdf.New(),
		logger:         logger.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Issue creates a batch of fresh challenges and records them in the store.
func (s *Service) Issue(ctx context.Context) ([]string, error) {
	if err := s.params.Validate(); err != nil {
		return nil, err
	}
	if s.params.N > uint64(^uint32(0)) {
		return nil, errors.Join(kdf.ErrInvalidParams, kdf.ErrCostTooLarge)
	}
	mask, err := DifficultyMask(s.level)
	if err != nil {
		return nil, err
	}
	if len(mask) > 2*int(s.params.KeyLen) {
		return nil, errors.Join(ErrInvalidDifficulty,
			fmt.Errorf("level %d needs a key of at least %d bytes", s.level, len(mask)/2))
	}

	out := make([]string, 0, s.batchSize)
	for range s.batchSize {
		preimage := make([]byte, s.preimageLength)
		if _, err := io.ReadFull(s.random, preimage); err != nil {
			return nil, errors.Join(ErrRandomSource, err)
		}

		encoded, err := EncodeChallenge(Challenge{
			N:               uint32(s.params.N),
			R:               s.params.R,
			P:               s.params.P,
			KeyLen:          s.params.KeyLen,
			Preimage:        base64.StdEncoding.EncodeToString(preimage),
			Difficulty:      mask,
			DifficultyLevel: s.level,
		})
		if err != nil {
			return nil, err
		}

		if s.store != nil {
			if err := s.store.Save(ctx, encoded, s.ttl); err != nil {
				return nil, errors.Join(ErrStore, err)
			}
		}
		out = append(out, encoded)
	}

	s.logger.InfoContext(ctx, "issued challenges",
		slog.Int("count", len(out)),
		logger.Params(s.params),
		slog.Int("difficulty_level", s.level),
	)
	return out, nil
}

// Verify checks that nonceHex solves challenge. An issued challenge is
// consumed by the first verification attempt, successful or not.
func (s *Service) Verify(ctx context.Context, challenge, nonceHex string) (Result, error) {
	challenge = strings.TrimSpace(challenge)
	if challenge == "" || nonceHex == "" {
		return Result{}, ErrMissingInput
	}

	nonce, err := hexcodec.Decode(nonceHex, hexcodec.Strict)
	if err != nil || len(nonce) == 0 {
		return Result{}, errors.Join(ErrInvalidNonce, err)
	}

	c, err := DecodeChallenge(challenge)
	if err != nil {
		return Result{}, err
	}

	preimage, err := c.PreimageBytes()
	if err != nil {
		return Result{}, err
	}
	if len(preimage) != s.preimageLength {
		return Result{}, errors.Join(ErrInvalidPreimage,
			fmt.Errorf("expected %d bytes, got %d", s.preimageLength, len(preimage)))
	}

	if s.store != nil {
		ok, err := s.store.Consume(ctx, challenge)
		if err != nil {
			return Result{}, errors.Join(ErrStore, err)
		}
		if !ok {
			return Result{}, ErrUnknownChallenge
		}
	}

	start := time.Now()
	hash, err := s.deriver.Scrypt(nonceHex, hexcodec.Encode(preimage), c.N, c.R, c.P, c.KeyLen)
	elapsed := time.Since(start)
	if err != nil {
		s.logger.ErrorContext(ctx, "challenge verification failed",
			logger.Challenge(challenge), logger.Error(err))
		if hexkdf.Kind(err) == hexkdf.InvalidParams {
			return Result{}, errors.Join(ErrInvalidChallenge, err)
		}
		return Result{}, errors.Join(ErrComputation, err)
	}

	res := Result{
		Hash:       hash,
		Tail:       Tail(hash, c.Difficulty),
		Difficulty: c.Difficulty,
		Duration:   elapsed,
	}
	if !Meets(hash, c.Difficulty) {
		s.logger.InfoContext(ctx, "challenge rejected",
			logger.Challenge(challenge), slog.String("tail", res.Tail), logger.Duration(elapsed))
		return res, ErrDifficultyNotMet
	}

	s.logger.InfoContext(ctx, "challenge verified",
		logger.Challenge(challenge), logger.Duration(elapsed))
	return res, nil
}

// Ping checks the backing store.
func (s *Service) Ping(ctx context.Context) error {
	if s.store == nil {
		return nil
	}
	return s.store.Ping(ctx)
}
