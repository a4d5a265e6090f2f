// Package logging provides structured logging for the envseed CLI using slog.
//
// Records go to the terminal through [Handler], which prints the batch and
// task of a record as a scope:
//
//	3:04PM INFO  [files/defaults] task finished status=successful
//
// or as JSON with [FormatJSON]. [Setup] wires the CLI flags: -v levels,
// --quiet, --log-format and a --log-file that receives a JSON copy of every
// record through [MultiHandler]. Values logged under secret looking keys,
// and values carrying known token prefixes, are masked in both formats.
//
// The CLI stores the logger in the command context with [NewContext];
// library code retrieves it with [FromContext], which falls back to
// slog.Default().
//
// Tests use [ForTest] so records appear only for failing tests:
//
//	p := provisioner.New(provisioner.WithLogger(logging.ForTest(t)))
package logging
