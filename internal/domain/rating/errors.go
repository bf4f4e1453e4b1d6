package rating

import "errors"

// Sentinel kinds for rating errors.
var (
	ErrNotFound       = errors.New("entity not rated")
	ErrSameEntity     = errors.New("entity matched against itself")
	ErrInvalidOutcome = errors.New("invalid outcome")
)
