package tag

import "errors"

// Tag-related errors
var (
	ErrNilStorage = errors.New("storage cannot be nil")
)
