package stat

import "errors"

// Sentinel kinds for stat errors.
var (
	ErrEmptySeries = errors.New("empty series")
)
