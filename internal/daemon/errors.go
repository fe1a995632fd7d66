package daemon

import "errors"

var (
	// ErrSocketInUse is returned when another daemon answers on the socket path
	ErrSocketInUse = errors.New("socket is in use by a running daemon")

	// ErrBroadcastFull is returned when the relay queue cannot take another event
	ErrBroadcastFull = errors.New("broadcast queue full")
)
