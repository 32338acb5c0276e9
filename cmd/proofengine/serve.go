package main

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/dmitrymomot/proofengine/internal/config"
	"github.com/dmitrymomot/proofengine/pkg/hexkdf"
	"github.com/dmitrymomot/proofengine/pkg/httpserver"
	"github.com/dmitrymomot/proofengine/pkg/logger"
	"github.com/dmitrymomot/proofengine/pkg/pow"
	"github.com/dmitrymomot/proofengine/pkg/powapi"
)

func newServeCmd() *cobra.Command {
	var envFiles []string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the proof-of-work HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(envFiles...)
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg, cmd.ErrOrStderr())
		},
	}

	cmd.Flags().StringSliceVar(&envFiles, "env-file", nil, "env files to load before reading the environment")
	return cmd
}

func serve(ctx context.Context, cfg config.Config, out io.Writer) error {
	log, err := logger.FromConfig(cfg.Log,
		logger.WithOutput(out),
		logger.WithAttr(slog.String("env", cfg.Env)),
		logger.WithContextExtractors(logger.ContextString("request_id", middleware.GetReqID)),
	)
	if err != nil {
		return err
	}

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		log.ErrorContext(ctx, "failed to open challenge store", logger.Error(err))
		return err
	}
	defer func() {
		if err := closeStore(); err != nil {
			log.Error("failed to close challenge store", logger.Error(err))
		}
	}()

	deriver := hexkdf.New(
		hexkdf.WithPolicy(cfg.Policy()),
		hexkdf.WithMaxMemory(cfg.MaxMemory),
		hexkdf.WithLogger(log.With(logger.Component("hexkdf"))),
	)

	svc := pow.NewService(store,
		pow.WithParams(cfg.Scrypt.Params()),
		pow.WithDifficultyLevel(cfg.DifficultyLevel),
		pow.WithBatchSize(cfg.BatchSize),
		pow.WithPreimageLength(cfg.PreimageLength),
		pow.WithTTL(cfg.ChallengeTTL),
		pow.WithDeriver(deriver),
		pow.WithLogger(log.With(logger.Component("pow"))),
	)

	handler := powapi.Router(svc,
		powapi.WithDeriver(deriver),
		powapi.WithAllowedOrigins(cfg.CORSOrigins...),
		powapi.WithLogger(log.With(logger.Component("http"))),
	)

	log.InfoContext(ctx, "starting proofengine",
		logger.Params(cfg.Scrypt.Params()),
		slog.Int("difficulty_level", cfg.DifficultyLevel),
		slog.String("store", cfg.Store),
		slog.String("hex_policy", cfg.Policy().String()),
	)

	srv := httpserver.New(cfg.HTTP, httpserver.WithLogger(log))
	return srv.Run(ctx, handler)
}

func openStore(ctx context.Context, cfg config.Config) (pow.Store, func() error, error) {
	switch cfg.Store {
	case config.StoreRedis:
		client, err := pow.ConnectRedis(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		return pow.NewRedisStore(client), client.Close, nil
	case config.StoreMemory:
		ms := pow.NewMemoryStore()
		return ms, ms.Close, nil
	default:
		return nil, nil, errors.Join(config.ErrInvalidConfig, errors.New("unknown store "+cfg.Store))
	}
}
