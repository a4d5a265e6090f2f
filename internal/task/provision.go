package task

import (
	"context"
	"fmt"

	"github.com/thoreinstein/envseed/internal/check"
	"github.com/thoreinstein/envseed/internal/errors"
	"github.com/thoreinstein/envseed/internal/platform"
	"github.com/thoreinstein/envseed/internal/result"
)

// Validation reasons produced by the built-in checks.
const (
	ReasonUnsupportedPlatform = "Unsupported platform"
	ReasonBasicValidations    = "Basic validations succeeded"
)

// AlreadyProvisionedReason is the skip reason used when t's resources exist.
func AlreadyProvisionedReason(t Task) string {
	return fmt.Sprintf("Resources of %s are already provisioned", t.Name())
}

// Validate resolves the validation chain of t on platform p.
//
// The order is fixed: platform applicability, then the idempotency check,
// then the task's custom validations. The first non-proceed decision
// short-circuits the rest. Without custom validations the chain proceeds.
func Validate(t Task, p platform.Platform) check.Decision {
	idempotency := func() check.Outcome {
		if t.AlreadyProvisioned() {
			return check.Skip(AlreadyProvisionedReason(t))
		}
		if custom := t.CustomValidations(); custom != nil {
			return check.Next(custom)
		}
		return check.Proceed(ReasonBasicValidations)
	}

	platformCheck := func() check.Outcome {
		if !t.SupportsPlatform(p) {
			return check.Skip(ReasonUnsupportedPlatform)
		}
		return check.Next(idempotency)
	}

	return check.Resolve(platformCheck)
}

// Provision validates t and runs its action only when the chain proceeds.
//
// Skip and abort decisions become Skipped and Aborted results. An
// unresolved chain becomes a Failed result. The returned result is
// attributed to t. A non-nil error comes only from Execute and is fatal.
func Provision(ctx context.Context, t Task, p platform.Platform) (result.Result, error) {
	d := Validate(t, p)

	var res result.Result
	switch d.Verdict {
	case check.VerdictProceed:
		var err error
		res, err = t.Execute(ctx)
		if err != nil {
			return result.Result{}, errors.Wrapf(err, "executing %s", t.Name())
		}
	case check.VerdictSkip:
		res = result.Skipped(d.Reason)
	case check.VerdictAbort:
		res = result.Aborted(d.Reason)
	default:
		res = result.Failed(fmt.Sprintf("validation yielded %s", d.Verdict), nil)
	}

	return res.WithTask(t.Name()), nil
}
