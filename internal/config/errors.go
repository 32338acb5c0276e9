package config

import "errors"

var (
	ErrLoadEnvFile   = errors.New("failed to load env file")
	ErrParsingConfig = errors.New("failed to parse environment variables into config")
	ErrInvalidConfig = errors.New("invalid configuration")
)
