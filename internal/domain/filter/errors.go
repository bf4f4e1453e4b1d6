package filter

import "errors"

// Sentinel kinds for filter errors.
var (
	ErrNotFound = errors.New("entity not tracked")
)
