// Package logger builds slog loggers for proofengine binaries and libraries.
//
// New returns a *slog.Logger configured by functional options: output format
// (json or text), minimum level, static attributes, and ContextExtractor
// callbacks that pull request scoped values such as the request id out of
// context.Context on every record. FromConfig does the same from the
// string values found in environment configuration.
//
// Libraries in this module accept a *slog.Logger and fall back to Discard so
// they stay silent unless the caller wires a real logger.
//
// Attribute helpers (Error, Component, Duration, Params, Challenge) keep key
// names consistent across packages:
//
//	log := logger.New(logger.WithFormat(logger.FormatText), logger.WithLevel(slog.LevelDebug))
//	log.InfoContext(ctx, "derived key", logger.Params(p), logger.Duration(time.Since(start)))
package logger
