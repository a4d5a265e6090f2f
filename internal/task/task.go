package task

import (
	"context"

	"github.com/thoreinstein/envseed/internal/check"
	"github.com/thoreinstein/envseed/internal/platform"
	"github.com/thoreinstein/envseed/internal/result"
)

// Task is the contract a provisioning task implements.
//
// All methods except Execute are queries: they may inspect external state
// but must not change it. Tasks in the same batch run concurrently, so a
// task must not race with its siblings on shared resources.
type Task interface {
	// Name identifies the task in results, logs and reports.
	Name() string

	// SupportsPlatform reports whether the task applies to the host platform.
	SupportsPlatform(p platform.Platform) bool

	// AlreadyProvisioned reports whether the resource already exists, in
	// which case the action is skipped.
	AlreadyProvisioned() bool

	// CustomValidations returns additional checks evaluated after the
	// platform and idempotency checks, or nil for none.
	CustomValidations() check.Check

	// Execute performs the actual effect.
	//
	// Execute must never be called directly. Use Provision, which runs the
	// validation chain first. Task failures should be reported as a
	// result.Failed value; a non-nil error is reserved for unexpected
	// conditions and is fatal to the whole provisioning run.
	Execute(ctx context.Context) (result.Result, error)
}

// Base provides the default, unrestricted implementations of
// SupportsPlatform and CustomValidations. Embed it in task types.
type Base struct{}

// SupportsPlatform returns true for every platform.
func (Base) SupportsPlatform(platform.Platform) bool { return true }

// CustomValidations returns nil.
func (Base) CustomValidations() check.Check { return nil }

// UnixOnly restricts a task to Unix-like hosts, including macOS.
// Embed it in place of Base.
type UnixOnly struct{}

// SupportsPlatform returns true for Mac and Unix.
func (UnixOnly) SupportsPlatform(p platform.Platform) bool {
	return p == platform.Mac || p == platform.Unix
}

// CustomValidations returns nil.
func (UnixOnly) CustomValidations() check.Check { return nil }

// PlatformSet restricts a task to the listed platforms. An empty set
// supports every platform. Embed it in place of Base.
type PlatformSet []platform.Platform

// SupportsPlatform reports whether p is in the set, or the set is empty.
func (s PlatformSet) SupportsPlatform(p platform.Platform) bool {
	if len(s) == 0 {
		return true
	}
	for _, allowed := range s {
		if allowed == p {
			return true
		}
	}
	return false
}

// CustomValidations returns nil.
func (PlatformSet) CustomValidations() check.Check { return nil }
