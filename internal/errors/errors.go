package errors

import (
	"fmt"
	"io"

	crdb "github.com/cockroachdb/errors"
)

// Process exit codes of envseed.
const (
	// ExitSuccess means every task succeeded or was skipped.
	ExitSuccess = 0

	// ExitUser means the plan or the flags are wrong.
	ExitUser = 1

	// ExitSystem means a run was halted by an aborted or failed task, or
	// stopped on an unexpected error.
	ExitSystem = 2
)

// Sentinel errors shared across packages.
var (
	// ErrNotFound indicates a missing plan file or backup.
	ErrNotFound = crdb.New("resource not found")

	// ErrInvalidConfig indicates a plan that failed to load or validate.
	ErrInvalidConfig = crdb.New("invalid configuration")

	// ErrUnknownTaskType indicates a plan task type with no registered builder.
	ErrUnknownTaskType = crdb.New("unknown task type")

	// ErrProvisioningFailed indicates a run that ended on a fatal error.
	ErrProvisioningFailed = crdb.New("provisioning failed")
)

// Re-exports so that every package wraps errors the same way.
var (
	New       = crdb.New
	Newf      = crdb.Newf
	Wrap      = crdb.Wrap
	Wrapf     = crdb.Wrapf
	Is        = crdb.Is
	As        = crdb.As
	Mark      = crdb.Mark
	WithStack = crdb.WithStack

	CombineErrors = crdb.CombineErrors
)

// ExitError carries the exit code for a failed command and a hint
// printed below the error message.
type ExitError struct {
	Err        error
	Code       int
	Suggestion string
}

// NewExitError creates an ExitError without a suggestion.
func NewExitError(err error, code int) *ExitError {
	return &ExitError{Err: err, Code: code}
}

// NewUserError reports a mistake the user can fix, with exit code 1.
func NewUserError(err error, suggestion string) *ExitError {
	return &ExitError{Err: err, Code: ExitUser, Suggestion: suggestion}
}

// NewSystemError reports a halted or broken run, with exit code 2.
func NewSystemError(err error, suggestion string) *ExitError {
	return &ExitError{Err: err, Code: ExitSystem, Suggestion: suggestion}
}

// NewConfigError reports a plan that could not be loaded, with exit code 1.
func NewConfigError(err error) *ExitError {
	return &ExitError{
		Err:        Mark(err, ErrInvalidConfig),
		Code:       ExitUser,
		Suggestion: "Run: envseed plan --config <file>",
	}
}

// Error returns the message of the wrapped error, or the exit code when
// there is none.
func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit code %d", e.Code)
	}
	return e.Err.Error()
}

// Unwrap returns the wrapped error.
func (e *ExitError) Unwrap() error {
	return e.Err
}

// Code returns the exit code for err: ExitSuccess for nil, the code of
// the first ExitError in the chain, and ExitUser otherwise.
func Code(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitUser
}

// Report writes err and its suggestion to w and returns the exit code.
func Report(w io.Writer, err error) int {
	if err == nil {
		return ExitSuccess
	}

	var exitErr *ExitError
	if !As(err, &exitErr) {
		fmt.Fprintf(w, "Error: %v\n", err)
		return ExitUser
	}

	if exitErr.Err != nil {
		fmt.Fprintf(w, "Error: %v\n", exitErr.Err)
	}
	if exitErr.Suggestion != "" {
		fmt.Fprintln(w, exitErr.Suggestion)
	}
	return exitErr.Code
}
