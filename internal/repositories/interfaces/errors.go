package interfaces

import "errors"

var (
	ErrNotFound     = errors.New("record not found")
	ErrDuplicateKey = errors.New("duplicate key")
	// ErrNoMatch is returned by conditional updates whose guard matched no document.
	ErrNoMatch = errors.New("no document matched the update condition")
)
