package models

import "errors"

// Domain-specific errors
var (
	// ErrInvalidRepeatTime indicates a repeat_time that is not "days|HH:MM|HH:MM"
	ErrInvalidRepeatTime = errors.New("invalid repeat_time")
)
