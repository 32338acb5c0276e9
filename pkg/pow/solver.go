package pow

import (
	"context"
	"errors"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/proofengine/pkg/hexcodec"
	"github.com/dmitrymomot/proofengine/pkg/hexkdf"
)

// workerStride spaces the starting nonces of workers apart, scaled by 2^dl.
const workerStride = 1000

// Solution is a nonce that satisfies a challenge.
type Solution struct {
	Nonce    string
	Hash     string
	Tail     string
	Attempts uint64
	Duration time.Duration
}

// Progress is reported periodically while solving.
type Progress struct {
	Attempts     uint64
	SmallestTail string
	Difficulty   string
}

type solveConfig struct {
	workers     int
	batchSize   int
	maxAttempts uint64
	progress    func(Progress)
	deriver     *hexkdf.Deriver
}

// SolveOption configures Solve.
type SolveOption func(*solveConfig)

// WithWorkers sets the number of solver goroutines. Defaults to GOMAXPROCS.
func WithWorkers(n int) SolveOption {
	return func(c *solveConfig) {
		if n > 0 {
			c.workers = n
		}
	}
}

// WithProgress registers a callback invoked after every batch of attempts.
// The callback is serialized across workers.
func WithProgress(fn func(Progress)) SolveOption {
	return func(c *solveConfig) { c.progress = fn }
}

// WithMaxAttempts bounds the total number of derivations. Zero means unbounded.
func WithMaxAttempts(n uint64) SolveOption {
	return func(c *solveConfig) { c.maxAttempts = n }
}

// WithSolverDeriver sets the deriver used for each attempt.
func WithSolverDeriver(d *hexkdf.Deriver) SolveOption {
	return func(c *solveConfig) {
		if d != nil {
			c.deriver = d
		}
	}
}

// Solve searches for a nonce that solves challenge. Workers check ctx between
// derivations; a derivation already running is not interrupted.
func Solve(ctx context.Context, challenge string, opts ...SolveOption) (Solution, error) {
	cfg := solveConfig{
		workers:   runtime.GOMAXPROCS(0),
		batchSize: 4,
		deriver:   hexkdf.New(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	c, err := DecodeChallenge(challenge)
	if err != nil {
		return Solution{}, err
	}
	preimage, err := c.PreimageBytes()
	if err != nil {
		return Solution{}, err
	}
	if err := c.Params().Validate(); err != nil {
		return Solution{}, errors.Join(ErrInvalidChallenge, err)
	}
	preimageHex := hexcodec.Encode(preimage)

	start := time.Now()
	g, gctx := errgroup.WithContext(ctx)

	var (
		attempts atomic.Uint64
		mu       sync.Mutex
		found    *Solution
		smallest = strings.Repeat("f", len(c.Difficulty))
	)

	stride := uint64(workerStride)
	if c.DifficultyLevel > 0 && c.DifficultyLevel < 40 {
		stride <<= uint(c.DifficultyLevel)
	}

	for w := range cfg.workers {
		g.Go(func() error {
			nonce := uint64(w) * stride
			for {
				for range cfg.batchSize {
					if err := gctx.Err(); err != nil {
						return err
					}
					if cfg.maxAttempts > 0 && attempts.Load() >= cfg.maxAttempts {
						return ErrNoSolution
					}

					nonce++
					nonceHex := NonceHex(nonce)
					hash, err := cfg.deriver.Scrypt(nonceHex, preimageHex, c.N, c.R, c.P, c.KeyLen)
					if err != nil {
						return errors.Join(ErrComputation, err)
					}
					n := attempts.Add(1)
					tail := Tail(hash, c.Difficulty)

					mu.Lock()
					if tail < smallest {
						smallest = tail
					}
					if found == nil && tail <= c.Difficulty {
						found = &Solution{Nonce: nonceHex, Hash: hash, Tail: tail, Attempts: n}
						mu.Unlock()
						return errSolved
					}
					mu.Unlock()
				}

				if cfg.progress != nil {
					mu.Lock()
					if found == nil {
						cfg.progress(Progress{
							Attempts:     attempts.Load(),
							SmallestTail: smallest,
							Difficulty:   c.Difficulty,
						})
					}
					mu.Unlock()
				}
			}
		})
	}

	err = g.Wait()
	if found != nil {
		sol := *found
		sol.Duration = time.Since(start)
		return sol, nil
	}
	return Solution{}, err
}

// errSolved stops the other workers once a solution is recorded.
var errSolved = errors.New("solved")
