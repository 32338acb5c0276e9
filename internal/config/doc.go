// Package config loads proofengine settings from the environment.
//
// Values are read from optional .env files (github.com/joho/godotenv) and then
// parsed from POW_ prefixed environment variables into Config with
// github.com/caarlos0/env/v11. Variables already present in the process
// environment win over values from files.
//
//	cfg, err := config.Load()           // ./.env if present
//	cfg, err := config.Load("prod.env") // explicit files must exist
package config
