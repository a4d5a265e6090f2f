// Package tasks provides the filesystem provisioning tasks envseed ships
// with: directories, files and symbolic links.
//
// Every task is idempotent. AlreadyProvisioned inspects the filesystem and
// reports true when the desired state is in place, so running the same plan
// twice changes nothing the second time.
//
// Tasks never return a non-nil error from Execute for ordinary filesystem
// failures. Those become result.Failed values, or result.Partial when some
// parent directories were created before the failure.
package tasks
