package config

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/dmitrymomot/proofengine/pkg/hexcodec"
	"github.com/dmitrymomot/proofengine/pkg/httpserver"
	"github.com/dmitrymomot/proofengine/pkg/kdf"
	"github.com/dmitrymomot/proofengine/pkg/logger"
	"github.com/dmitrymomot/proofengine/pkg/pow"
)

// Prefix is prepended to every environment variable name.
const Prefix = "POW_"

const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
)

// Config is the full application configuration.
type Config struct {
	Env         string            `env:"ENV" envDefault:"development"`
	Log         logger.Config     `envPrefix:"LOG_"`
	HTTP        httpserver.Config `envPrefix:"HTTP_"`
	CORSOrigins []string          `env:"CORS_ORIGINS" envSeparator:"," envDefault:"*"`

	Scrypt          ScryptConfig  `envPrefix:"SCRYPT_"`
	DifficultyLevel int           `env:"DIFFICULTY_LEVEL" envDefault:"8"`
	BatchSize       int           `env:"BATCH_SIZE" envDefault:"10"`
	PreimageLength  int           `env:"PREIMAGE_LENGTH" envDefault:"8"`
	ChallengeTTL    time.Duration `env:"CHALLENGE_TTL" envDefault:"5m"`
	HexPolicy       string        `env:"HEX_POLICY" envDefault:"strict"`
	MaxMemory       uint64        `env:"MAX_MEMORY" envDefault:"268435456"` // bytes, 0 = unlimited

	Store string          `env:"STORE" envDefault:"memory"`
	Redis pow.RedisConfig `envPrefix:"REDIS_"`
}

// ScryptConfig holds the parameters embedded in issued challenges.
type ScryptConfig struct {
	N      uint64 `env:"N" envDefault:"16384"`
	R      uint32 `env:"R" envDefault:"8"`
	P      uint32 `env:"P" envDefault:"1"`
	KeyLen uint32 `env:"KEY_LEN" envDefault:"16"`
}

func (s ScryptConfig) Params() kdf.Params {
	return kdf.Params{N: s.N, R: s.R, P: s.P, KeyLen: s.KeyLen}
}

// Load reads env files and parses the environment into a validated Config.
// Without arguments it loads ./.env when that file exists.
func Load(files ...string) (Config, error) {
	var cfg Config

	if err := godotenv.Load(files...); err != nil {
		if len(files) > 0 || !errors.Is(err, fs.ErrNotExist) {
			return cfg, errors.Join(ErrLoadEnvFile, err)
		}
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: Prefix}); err != nil {
		return cfg, errors.Join(ErrParsingConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks cross-field constraints the env parser cannot express.
func (c Config) Validate() error {
	if err := c.Scrypt.Params().Validate(); err != nil {
		return errors.Join(ErrInvalidConfig, err)
	}
	if c.Scrypt.N > math.MaxUint32 {
		return errors.Join(ErrInvalidConfig, fmt.Errorf("%sSCRYPT_N must fit in 32 bits", Prefix))
	}

	mask, err := pow.DifficultyMask(c.DifficultyLevel)
	if err != nil {
		return errors.Join(ErrInvalidConfig, err)
	}
	if len(mask) > 2*int(c.Scrypt.KeyLen) {
		return errors.Join(ErrInvalidConfig,
			fmt.Errorf("difficulty level %d needs %sSCRYPT_KEY_LEN >= %d", c.DifficultyLevel, Prefix, len(mask)/2))
	}
	if c.BatchSize < 1 {
		return errors.Join(ErrInvalidConfig, fmt.Errorf("%sBATCH_SIZE must be positive", Prefix))
	}
	if c.PreimageLength < 1 {
		return errors.Join(ErrInvalidConfig, fmt.Errorf("%sPREIMAGE_LENGTH must be positive", Prefix))
	}
	if c.ChallengeTTL <= 0 {
		return errors.Join(ErrInvalidConfig, fmt.Errorf("%sCHALLENGE_TTL must be positive", Prefix))
	}
	if _, err := hexcodec.ParsePolicy(c.HexPolicy); err != nil {
		return errors.Join(ErrInvalidConfig, err)
	}

	switch c.Store {
	case StoreMemory, StoreRedis:
	default:
		return errors.Join(ErrInvalidConfig, fmt.Errorf("unknown store %q", c.Store))
	}
	return nil
}

// Policy returns the parsed hex decoding policy. Call after Validate.
func (c Config) Policy() hexcodec.Policy {
	p, _ := hexcodec.ParsePolicy(c.HexPolicy)
	return p
}
