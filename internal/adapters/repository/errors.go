package repository

import "errors"

// Sentinel kinds for history errors.
var (
	ErrNotFound = errors.New("no samples recorded")
)
