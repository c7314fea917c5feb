package internalerr

import "errors"

// Sentinel errors for common cases
var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidInput      = errors.New("invalid input")
	ErrStoreUnavailable  = errors.New("store unavailable")
	ErrInvalidConfig     = errors.New("invalid configuration")
	ErrCorpusRead        = errors.New("corpus read failed")
	ErrLookupUnavailable = errors.New("lookup unavailable")
)
