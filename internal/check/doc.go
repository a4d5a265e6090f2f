// Package check implements the validation chain that decides whether a
// provisioning task may run.
//
// A chain is a sequence of [Check] functions. Each check returns an
// [Outcome]: either a terminal [Decision] (proceed, skip or abort) or a
// continuation naming the next check. [Resolve] walks the chain
// iteratively and always returns exactly one Decision:
//
//	platformOK := func() check.Outcome {
//	    if !supported {
//	        return check.Skip("unsupported platform")
//	    }
//	    return check.Next(notInstalled)
//	}
//	d := check.Resolve(platformOK)
//
// A chain that ends without an explicit decision, returns a zero Outcome,
// or exceeds the step bound resolves to [VerdictUnresolved]. Callers must
// treat that as a failure, not as an abort.
package check
