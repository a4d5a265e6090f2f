package check

import "fmt"

// DefaultMaxSteps bounds the number of checks Resolve evaluates before
// giving up with an unresolved decision.
const DefaultMaxSteps = 1024

const (
	unknownReason    = "unknown reason"
	unresolvedReason = "validation could not be resolved"
)

// Check is a single validation step. Evaluating it yields either a
// terminal decision or a continuation naming the next Check.
type Check func() Outcome

type outcomeKind int

const (
	kindInvalid outcomeKind = iota
	kindContinue
	kindTerminal
)

// Outcome is the value produced by evaluating a Check. Build one with
// Next, Proceed, Skip, Abort or Decide. The zero Outcome is neither a
// continuation nor a decision and resolves to VerdictUnresolved.
type Outcome struct {
	kind     outcomeKind
	next     Check
	decision Decision
}

// Next continues evaluation with c.
func Next(c Check) Outcome {
	return Outcome{kind: kindContinue, next: c}
}

// Proceed ends the chain allowing the action to run.
func Proceed(reason string) Outcome {
	return Decide(Decision{Verdict: VerdictProceed, Reason: reason})
}

// Skip ends the chain without running the action.
// An empty reason is replaced by a generic one.
func Skip(reason string) Outcome {
	return Decide(Decision{Verdict: VerdictSkip, Reason: orUnknown(reason)})
}

// Abort ends the chain and requests that the run stops.
// An empty reason is replaced by a generic one.
func Abort(reason string) Outcome {
	return Decide(Decision{Verdict: VerdictAbort, Reason: orUnknown(reason)})
}

// Decide ends the chain with d.
func Decide(d Decision) Outcome {
	return Outcome{kind: kindTerminal, decision: d}
}

// Terminal reports the decision carried by o, if any.
func (o Outcome) Terminal() (Decision, bool) {
	if o.kind != kindTerminal {
		return Decision{}, false
	}
	return o.decision, true
}

// Resolve evaluates the chain starting at first until a terminal decision
// is produced, using DefaultMaxSteps as the bound.
func Resolve(first Check) Decision {
	return ResolveN(first, DefaultMaxSteps)
}

// ResolveN evaluates the chain starting at first, following continuations
// iteratively. It returns VerdictUnresolved when a nil Check or a zero
// Outcome is encountered, or when more than maxSteps checks would be
// evaluated. A self-referencing chain therefore always terminates.
func ResolveN(first Check, maxSteps int) Decision {
	current := first
	for range maxSteps {
		if current == nil {
			return unresolved(unresolvedReason)
		}

		out := current()
		switch out.kind {
		case kindTerminal:
			return out.decision
		case kindContinue:
			current = out.next
		default:
			return unresolved(unresolvedReason)
		}
	}
	return unresolved(fmt.Sprintf("validation did not resolve within %d steps", maxSteps))
}

// Chain runs checks in order. Each check is resolved on its own; the first
// non-proceed decision ends the chain, otherwise the chain proceeds.
// An empty Chain proceeds.
func Chain(checks ...Check) Check {
	return func() Outcome {
		if len(checks) == 0 {
			return Proceed("all checks passed")
		}

		d := Resolve(checks[0])
		if d.Verdict != VerdictProceed {
			return Decide(d)
		}
		if len(checks) == 1 {
			return Decide(d)
		}
		return Next(Chain(checks[1:]...))
	}
}

func unresolved(reason string) Decision {
	return Decision{Verdict: VerdictUnresolved, Reason: reason}
}

func orUnknown(reason string) string {
	if reason == "" {
		return unknownReason
	}
	return reason
}
