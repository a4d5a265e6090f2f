// Package result defines the outcome of a provisioning task.
package result

import (
	"encoding/json"
	"slices"
	"strings"
)

// Status is the variant of a Result.
type Status int

const (
	// StatusSuccessful means the action completed and produced its changes.
	StatusSuccessful Status = iota + 1

	// StatusPartial means the action applied only some of its changes.
	// It is a degraded success and does not halt the run.
	StatusPartial

	// StatusSkipped means the action did not run, for example because the
	// resource already exists or the platform is unsupported.
	StatusSkipped

	// StatusAborted means validation or the task requested that the run stops.
	StatusAborted

	// StatusFailed means the task reported an error.
	StatusFailed
)

// String returns the lower-case name of the status.
func (s Status) String() string {
	switch s {
	case StatusSuccessful:
		return "successful"
	case StatusPartial:
		return "partial"
	case StatusSkipped:
		return "skipped"
	case StatusAborted:
		return "aborted"
	case StatusFailed:
		return "failed"
	default:
		return "invalid"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Result is the immutable outcome of one provisioning task. Construct it
// with Successful, Partial, Skipped, Aborted or Failed; the zero value has
// an invalid status.
type Result struct {
	status  Status
	task    string
	changes []Change
	reason  string
	cause   error
}

// Successful reports a completed action and the changes it made.
func Successful(changes ...Change) Result {
	return Result{status: StatusSuccessful, changes: slices.Clone(changes)}
}

// Partial reports an action that applied only the given changes.
func Partial(changes ...Change) Result {
	return Result{status: StatusPartial, changes: slices.Clone(changes)}
}

// Skipped reports an action that did not run.
func Skipped(reason string) Result {
	return Result{status: StatusSkipped, reason: reason}
}

// Aborted reports a request to halt the run.
func Aborted(reason string) Result {
	return Result{status: StatusAborted, reason: reason}
}

// Failed reports a task error. cause may be nil.
func Failed(reason string, cause error) Result {
	return Result{status: StatusFailed, reason: reason, cause: cause}
}

// Status returns the variant of r.
func (r Result) Status() Status { return r.status }

// Task returns the name of the task that produced r, if known.
func (r Result) Task() string { return r.task }

// Reason returns the explanation for Skipped, Aborted and Failed results,
// and for Partial results built with WithReason.
func (r Result) Reason() string { return r.reason }

// Cause returns the error behind a Failed or Partial result, or nil.
func (r Result) Cause() error { return r.cause }

// Changes returns a copy of the changes of a Successful or Partial result.
func (r Result) Changes() []Change { return slices.Clone(r.changes) }

// IsAbortion reports whether r must halt the scheduling of further batches.
// Only Aborted and Failed results do.
func (r Result) IsAbortion() bool {
	switch r.status {
	case StatusAborted, StatusFailed:
		return true
	default:
		return false
	}
}

// WithReason returns a copy of r explaining why it is not a full success,
// typically a Partial result and the error that cut the action short.
func (r Result) WithReason(reason string, cause error) Result {
	r.reason, r.cause = reason, cause
	return r
}

// WithTask returns a copy of r attributed to the named task.
func (r Result) WithTask(name string) Result {
	r.task = name
	return r
}

// String formats the result for logs and text reports.
func (r Result) String() string {
	var b strings.Builder
	b.WriteString(r.status.String())

	switch r.status {
	case StatusSuccessful, StatusPartial:
		if len(r.changes) > 0 {
			b.WriteString(": ")
			for i, c := range r.changes {
				if i > 0 {
					b.WriteString(", ")
				}
				b.WriteString(c.String())
			}
		}
		if r.reason != "" || r.cause != nil {
			b.WriteString(" [")
			b.WriteString(r.reason)
			if r.cause != nil {
				if r.reason != "" {
					b.WriteString(": ")
				}
				b.WriteString(r.cause.Error())
			}
			b.WriteString("]")
		}
	case StatusSkipped, StatusAborted, StatusFailed:
		if r.reason != "" {
			b.WriteString(": ")
			b.WriteString(r.reason)
		}
		if r.cause != nil {
			b.WriteString(" (")
			b.WriteString(r.cause.Error())
			b.WriteString(")")
		}
	}

	return b.String()
}

type resultJSON struct {
	Task    string   `json:"task,omitempty"`
	Status  Status   `json:"status"`
	Changes []Change `json:"changes,omitempty"`
	Reason  string   `json:"reason,omitempty"`
	Cause   string   `json:"cause,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (r Result) MarshalJSON() ([]byte, error) {
	out := resultJSON{
		Task:    r.task,
		Status:  r.status,
		Changes: r.changes,
		Reason:  r.reason,
	}
	if r.cause != nil {
		out.Cause = r.cause.Error()
	}
	return json.Marshal(out)
}
