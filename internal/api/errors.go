package api

import "errors"

var (
	// ErrNonLocalAddress is returned when asked to listen on anything but loopback
	ErrNonLocalAddress = errors.New("api only listens on localhost")

	// ErrNilBackend is returned by NewServer without a backend
	ErrNilBackend = errors.New("backend cannot be nil")

	errBadParam = errors.New("bad request")
)
