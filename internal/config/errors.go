package config

import "errors"

// ErrInvalidConfig is returned when a setting has an unknown value
var ErrInvalidConfig = errors.New("invalid configuration")
