package repository

import "errors"

// Sentinel kinds for dataset errors.
var (
	ErrLoad      = errors.New("load dataset")
	ErrNotLoaded = errors.New("dataset not loaded")
)
