package cli

import (
	"errors"
	"net/http"

	"github.com/thenoetrevino/tempo/internal/config"
	"github.com/thenoetrevino/tempo/internal/database"
	"github.com/thenoetrevino/tempo/internal/kv"
	"github.com/thenoetrevino/tempo/internal/models"
	"github.com/thenoetrevino/tempo/internal/storage"
)

// Exit codes for CLI commands.
// These codes follow Unix conventions and provide consistent error reporting
// across all CLI commands.
const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess = 0

	// ExitError indicates a general error occurred.
	// Use for: Database errors, network errors, unexpected failures,
	// or any error that doesn't fit the specific categories below.
	ExitError = 1

	// ExitUsage indicates incorrect command usage.
	// Use for: Missing required flags or arguments.
	ExitUsage = 2

	// ExitNotFound indicates a requested resource was not found.
	// Use for: Repeat task or matter not found.
	ExitNotFound = 3

	// ExitDataErr indicates invalid or malformed data.
	// Use for: Malformed repeat_time values, unreadable configuration.
	ExitDataErr = 4

	// ExitValidation indicates a validation error.
	// Use for: Invalid priority or status values, empty tag lists,
	// or any case where input fails validation rules.
	ExitValidation = 5
)

// CodeError carries the exit code a failed command should end the process with
type CodeError struct {
	Code int
	Err  error
	// Reported is set once the error has been printed to the user
	Reported bool
}

func (e *CodeError) Error() string {
	return e.Err.Error()
}

func (e *CodeError) Unwrap() error {
	return e.Err
}

// ExitCode maps an error returned by a command to a process exit code
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var exitErr *CodeError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	var remoteErr *storage.RemoteError
	if errors.As(err, &remoteErr) && remoteErr.Code == http.StatusNotFound {
		return ExitNotFound
	}

	switch {
	case errors.Is(err, database.ErrNotFound):
		return ExitNotFound
	case errors.Is(err, models.ErrInvalidRepeatTime),
		errors.Is(err, config.ErrInvalidConfig):
		return ExitDataErr
	case errors.Is(err, storage.ErrInvalid),
		errors.Is(err, database.ErrNoTagNames),
		errors.Is(err, database.ErrInvalidField),
		errors.Is(err, kv.ErrEmptyKey):
		return ExitValidation
	default:
		return ExitError
	}
}

// Reported reports whether err was already printed by a formatter
func Reported(err error) bool {
	var exitErr *CodeError
	return errors.As(err, &exitErr) && exitErr.Reported
}
