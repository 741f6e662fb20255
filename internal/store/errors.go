package store

import "errors"

// Errors returned by store operations.
var (
	// ErrNotFound indicates no snapshot is stored under the key.
	ErrNotFound = errors.New("snapshot not found")

	// ErrEmptyKey indicates an empty snapshot key.
	ErrEmptyKey = errors.New("snapshot key must not be empty")

	// ErrPathRequired indicates an on-disk store was configured without a path.
	ErrPathRequired = errors.New("path is required for persistent store")
)
