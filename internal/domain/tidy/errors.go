package tidy

import "errors"

// Sentinel kinds for tidy pipeline errors.
var (
	ErrMalformedKey = errors.New("composite key has no gender/event separator")
	ErrNilTable     = errors.New("raw table is nil")
)
