package pow

import "errors"

var (
	ErrMissingInput     = errors.New("insufficient parameters")
	ErrInvalidNonce     = errors.New("invalid nonce hex")
	ErrInvalidChallenge = errors.New("invalid challenge format")
	ErrInvalidPreimage  = errors.New("invalid preimage format")
	ErrUnknownChallenge = errors.New("challenge was not issued or has expired")
	ErrDifficultyNotMet = errors.New("hash does not meet difficulty requirement")
	ErrComputation      = errors.New("computation failed")

	ErrInvalidDifficulty = errors.New("difficulty level out of range")
	ErrRandomSource      = errors.New("failed to read random preimage")
	ErrStore             = errors.New("challenge store failure")
	ErrNoSolution        = errors.New("no solution found within the attempt budget")

	ErrFailedToParseRedisURL = errors.New("failed to parse redis connection string")
	ErrRedisNotReady         = errors.New("redis did not become ready within the given time period")
)
