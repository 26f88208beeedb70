package model

import "errors"

// Sentinel kinds shared by the loader and the tidy pipeline.
var (
	ErrMissingIdentifier = errors.New("identifier column " + IdentifierColumn + " not found")
)
