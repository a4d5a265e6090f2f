package provisioner

import (
	"fmt"

	"github.com/thoreinstein/envseed/internal/errors"
)

// FatalError reports a provisioning run stopped by an unexpected task
// error or panic, as opposed to an aborted or failed result.
// It matches errors.ErrProvisioningFailed.
type FatalError struct {
	// Batch is the name of the batch that was running.
	Batch string

	// Index is the position of that batch in the run.
	Index int

	// Err is the underlying task error.
	Err error
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("%s in batch %d (%s): %v", errors.ErrProvisioningFailed, e.Index, e.Batch, e.Err)
}

// Unwrap returns the underlying task error.
func (e *FatalError) Unwrap() error {
	return e.Err
}

// Is reports whether target is errors.ErrProvisioningFailed.
func (e *FatalError) Is(target error) bool {
	return target == errors.ErrProvisioningFailed
}
