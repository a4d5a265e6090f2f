// Package errors is the single errors package of envseed.
//
// It re-exports the constructors and inspectors of
// github.com/cockroachdb/errors, defines the sentinels shared across
// packages and maps failures to process exit codes:
//
//   - ExitSuccess (0): every task succeeded or was skipped
//   - ExitUser (1): the plan or the flags are wrong
//   - ExitSystem (2): a task aborted or failed, or the run broke
//
// Commands return an [ExitError] built with [NewUserError],
// [NewSystemError] or [NewConfigError]; main hands it to [Report], which
// prints the message and suggestion and returns the exit code.
package errors
