package tasks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/thoreinstein/envseed/internal/check"
	"github.com/thoreinstein/envseed/internal/platform"
	"github.com/thoreinstein/envseed/internal/result"
	"github.com/thoreinstein/envseed/internal/task"
)

// Symlink ensures Path is a symbolic link to Target. An existing link
// pointing elsewhere is replaced; any other existing file aborts the run.
type Symlink struct {
	task.PlatformSet

	// ID names the task. When empty, Name derives one from Path.
	ID string

	// Path is the location of the link.
	Path string

	// Target is the link destination. It is stored verbatim and may be
	// relative to the link's directory.
	Target string
}

var _ task.Task = (*Symlink)(nil)

// NewSymlink creates a Symlink task restricted to platforms, or
// unrestricted when none are given.
func NewSymlink(name, path, target string, platforms ...platform.Platform) *Symlink {
	return &Symlink{
		PlatformSet: platforms,
		ID:          name,
		Path:        filepath.Clean(path),
		Target:      target,
	}
}

// Name implements task.Task.
func (s *Symlink) Name() string {
	if s.ID != "" {
		return s.ID
	}
	return "symlink " + s.Path
}

// AlreadyProvisioned reports whether Path is a link to Target.
func (s *Symlink) AlreadyProvisioned() bool {
	got, err := os.Readlink(s.Path)
	return err == nil && got == s.Target
}

// CustomValidations refuses to replace anything but a symlink.
func (s *Symlink) CustomValidations() check.Check {
	return func() check.Outcome {
		info, err := os.Lstat(s.Path)
		switch {
		case os.IsNotExist(err):
			return check.Proceed("link location is free")
		case err != nil:
			return check.Abort(fmt.Sprintf("cannot inspect %s: %v", s.Path, err))
		case info.Mode()&os.ModeSymlink == 0:
			return check.Abort(fmt.Sprintf("%s exists and is not a symlink", s.Path))
		default:
			return check.Proceed("replacing existing symlink")
		}
	}
}

// Execute creates the link next to Path under a temporary name and renames
// it into place, creating missing parent directories first.
func (s *Symlink) Execute(ctx context.Context) (result.Result, error) {
	if res, done := cancelled(ctx); done {
		return res, nil
	}

	parent := filepath.Dir(s.Path)
	missing := missingDirs(parent)
	if len(missing) > 0 {
		if err := os.MkdirAll(parent, 0o755); err != nil {
			return failure("Creating parent directory failed", err, missing), nil
		}
	}

	tmp := filepath.Join(parent, fmt.Sprintf(".%s.envseed-%d", filepath.Base(s.Path), os.Getpid()))
	os.Remove(tmp)
	if err := os.Symlink(s.Target, tmp); err != nil {
		return failure("Creating symlink failed", err, missing), nil
	}
	if err := os.Rename(tmp, s.Path); err != nil {
		os.Remove(tmp)
		return failure("Replacing symlink failed", err, missing), nil
	}

	changes := createdDirs(missing)
	changes = append(changes, result.SymlinkCreated(s.Path, s.Target))
	return result.Successful(changes...), nil
}
