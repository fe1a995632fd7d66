package storage

import "errors"

var (
	// ErrInvalid wraps validation failures of records passed to storage
	ErrInvalid = errors.New("invalid record")

	// ErrRemote is returned when the HTTP API answers with a non-success code
	ErrRemote = errors.New("remote storage error")
)

// RemoteError carries the envelope code and message of a failed API call
type RemoteError struct {
	Code int
	Msg  string
}

func (e *RemoteError) Error() string {
	return e.Msg
}

func (e *RemoteError) Is(target error) bool {
	return target == ErrRemote
}
