package engine

import "errors"

// Errors returned by engine operations.
var (
	// ErrNegativeMaxHistory indicates a negative history capacity was configured.
	ErrNegativeMaxHistory = errors.New("max history must not be negative")

	// ErrInvalidSnapshot indicates persisted engine state could not be decoded.
	ErrInvalidSnapshot = errors.New("invalid snapshot")
)
