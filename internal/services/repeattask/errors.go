package repeattask

import "errors"

// Repeat-task errors
var (
	ErrEmptyID    = errors.New("repeat task id cannot be empty")
	ErrNilStorage = errors.New("storage cannot be nil")
)
