package indicator

import "errors"

// Sentinel kinds for indicator errors.
var (
	ErrUnknownIndicator = errors.New("unknown indicator")
)
