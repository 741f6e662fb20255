package config

import "errors"

// Errors returned by configuration loading.
var (
	// ErrFileNotFound indicates the configuration file doesn't exist.
	ErrFileNotFound = errors.New("config file not found")

	// ErrInvalidConfig indicates a value failed decoding or validation.
	ErrInvalidConfig = errors.New("invalid config")
)
