package config

import "errors"

var (
	// ErrInvalidConfig wraps every field that failed validation.
	ErrInvalidConfig = errors.New("config: invalid value")
	// ErrLoadConfig wraps file, env and decoding failures.
	ErrLoadConfig = errors.New("config: load failed")
)
