package chart

import "errors"

// Sentinel kinds for chart errors.
var (
	ErrNoData = errors.New("no medal counts to chart")
)
