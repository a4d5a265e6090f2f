package check

// Verdict is the terminal state of a validation chain.
type Verdict int

const (
	// VerdictUnresolved means the chain ended without an explicit decision.
	// It is the zero value so that an uninitialized Decision is never
	// mistaken for permission to proceed.
	VerdictUnresolved Verdict = iota

	// VerdictProceed allows the task action to run.
	VerdictProceed

	// VerdictSkip means the action is not needed or not applicable.
	VerdictSkip

	// VerdictAbort requests that the whole provisioning run stops.
	VerdictAbort
)

// String returns the lower-case name of the verdict.
func (v Verdict) String() string {
	switch v {
	case VerdictProceed:
		return "proceed"
	case VerdictSkip:
		return "skip"
	case VerdictAbort:
		return "abort"
	default:
		return "unresolved"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (v Verdict) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// Decision is the terminal outcome of a validation chain together with a
// human-readable reason.
type Decision struct {
	Verdict Verdict `json:"verdict"`
	Reason  string  `json:"reason"`
}

// String formats the decision as "verdict: reason".
func (d Decision) String() string {
	if d.Reason == "" {
		return d.Verdict.String()
	}
	return d.Verdict.String() + ": " + d.Reason
}
