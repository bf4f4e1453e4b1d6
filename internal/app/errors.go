package service

import "errors"

// ErrUnknownEvent is returned when the pipeline dequeues an event type the
// service does not know how to apply.
var ErrUnknownEvent = errors.New("unknown event type")
