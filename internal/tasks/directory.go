package tasks

import (
	"context"
	"os"
	"path/filepath"

	"github.com/thoreinstein/envseed/internal/paths"
	"github.com/thoreinstein/envseed/internal/platform"
	"github.com/thoreinstein/envseed/internal/result"
	"github.com/thoreinstein/envseed/internal/task"
)

// ReasonOccupied is the skip reason used when a non-directory exists where
// a directory should be created.
const ReasonOccupied = "There is already a file in the location"

// Directory ensures a directory exists, creating missing parents.
type Directory struct {
	task.PlatformSet

	// ID names the task. When empty, Name derives one from Path.
	ID string

	// Path is the directory to create.
	Path string

	// Perm is applied to every created directory; zero means paths.DefaultDirPerm.
	Perm os.FileMode
}

var _ task.Task = (*Directory)(nil)

// NewDirectory creates a Directory task restricted to platforms, or
// unrestricted when none are given.
func NewDirectory(name, path string, platforms ...platform.Platform) *Directory {
	return &Directory{
		PlatformSet: platforms,
		ID:          name,
		Path:        filepath.Clean(path),
	}
}

// Name implements task.Task.
func (d *Directory) Name() string {
	if d.ID != "" {
		return d.ID
	}
	return "directory " + d.Path
}

// AlreadyProvisioned reports whether a directory exists at Path.
func (d *Directory) AlreadyProvisioned() bool {
	info, err := os.Stat(d.Path)
	return err == nil && info.IsDir()
}

// Execute creates the directory and any missing parents.
func (d *Directory) Execute(ctx context.Context) (result.Result, error) {
	if res, done := cancelled(ctx); done {
		return res, nil
	}

	if _, err := os.Lstat(d.Path); err == nil {
		return result.Skipped(ReasonOccupied), nil
	}

	missing := missingDirs(d.Path)
	if err := paths.EnsureDir(d.Path, d.Perm); err != nil {
		return failure("Creating directory failed", err, missing), nil
	}

	return result.Successful(result.DirectoryCreated(d.Path)), nil
}

// HomeDirectory ensures a directory below the user's home exists. It only
// applies to Unix-like hosts.
type HomeDirectory struct {
	task.UnixOnly

	dir *Directory
}

var _ task.Task = (*HomeDirectory)(nil)

// NewHomeDirectory creates a HomeDirectory task for rel, which is resolved
// against the user's home directory.
func NewHomeDirectory(name, rel string) (*HomeDirectory, error) {
	home, err := paths.ResolveHome()
	if err != nil {
		return nil, err
	}
	return &HomeDirectory{dir: NewDirectory(name, filepath.Join(home, rel))}, nil
}

// Path returns the absolute directory path.
func (h *HomeDirectory) Path() string { return h.dir.Path }

// Name implements task.Task.
func (h *HomeDirectory) Name() string { return h.dir.Name() }

// AlreadyProvisioned reports whether the directory exists.
func (h *HomeDirectory) AlreadyProvisioned() bool { return h.dir.AlreadyProvisioned() }

// Execute creates the directory.
func (h *HomeDirectory) Execute(ctx context.Context) (result.Result, error) {
	return h.dir.Execute(ctx)
}
