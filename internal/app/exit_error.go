package app

import "errors"

// ExitError carries the process exit code a failed command should use.
type ExitError struct {
	Code int
	Err  error
}

func (e ExitError) Error() string {
	if e.Err == nil {
		return "exit"
	}
	return e.Err.Error()
}

func (e ExitError) Unwrap() error {
	return e.Err
}

func ExitWithError(code int, err error) error {
	return ExitError{Code: code, Err: err}
}

// AsExitError unwraps err looking for an ExitError.
func AsExitError(err error) (ExitError, bool) {
	if err == nil {
		return ExitError{}, false
	}
	var ee ExitError
	if errors.As(err, &ee) {
		return ee, true
	}
	return ExitError{}, false
}

// Exit codes used by the CLI.
const (
	ExitFailure         = 1
	ExitNeedsConfirm    = 2
	ExitInvalidInput    = 3
	ExitMissingResource = 4
)

// ExitCode maps an operation error onto a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	if ee, ok := AsExitError(err); ok {
		return ee.Code
	}
	switch {
	case errors.Is(err, ErrConfirmationRequired):
		return ExitNeedsConfirm
	case isInvalidInput(err):
		return ExitInvalidInput
	case isMissingResource(err):
		return ExitMissingResource
	default:
		return ExitFailure
	}
}
