package overlay

import "errors"

// Overlay errors
var (
	ErrNilWindowing   = errors.New("windowing backend cannot be nil")
	ErrNilEventSource = errors.New("event source cannot be nil")
	ErrNoWindow       = errors.New("window backend returned no window")
)
