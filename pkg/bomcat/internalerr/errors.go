package internalerr

import "errors"

// Sentinel errors for common cases
var (
	ErrUnreadableDocument = errors.New("unreadable document")
	ErrNotFound           = errors.New("not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrStoreUnavailable   = errors.New("store unavailable")
	ErrInvalidConfig      = errors.New("invalid configuration")
)
