package session

import "errors"

// Sentinel kinds for session errors.
var (
	ErrInvalidID = errors.New("invalid session id")
)
