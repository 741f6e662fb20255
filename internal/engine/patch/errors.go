package patch

import "errors"

// Errors returned by patch operations.
var (
	// ErrInvalidPath indicates a patch path does not resolve against the value.
	ErrInvalidPath = errors.New("invalid patch path")

	// ErrInvalidOp indicates an unknown or unsupported patch operation.
	ErrInvalidOp = errors.New("invalid patch operation")

	// ErrInvalidEdit indicates an edit carries no value or function.
	ErrInvalidEdit = errors.New("invalid edit")
)
