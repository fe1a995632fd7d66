package database

import "errors"

var (
	// ErrNotFound is returned when a row addressed by ID does not exist
	ErrNotFound = errors.New("not found")

	// ErrNoTagNames is returned when a comma-joined tag list holds no usable names
	ErrNoTagNames = errors.New("no valid tag names provided")

	// ErrInvalidField is returned by field queries on a column that is not queryable
	ErrInvalidField = errors.New("invalid field name")
)
