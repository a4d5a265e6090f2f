// Package task defines the provisioning task contract and the shared
// validate-then-execute logic built on top of it.
//
// A task implements [Task]. Most tasks embed [Base] (or [UnixOnly], or a
// [PlatformSet]) for the default platform and custom validation behavior
// and only provide Name, AlreadyProvisioned and Execute:
//
//	type touch struct {
//	    task.Base
//	    path string
//	}
//
// [Provision] is the only supported way to run a task. It resolves the
// validation chain with [Validate] and calls Execute only when the chain
// proceeds.
package task
