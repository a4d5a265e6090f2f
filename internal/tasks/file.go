package tasks

import (
	"context"
	"os"
	"path/filepath"

	"github.com/thoreinstein/envseed/internal/backup"
	"github.com/thoreinstein/envseed/internal/platform"
	"github.com/thoreinstein/envseed/internal/result"
	"github.com/thoreinstein/envseed/internal/task"
	"github.com/thoreinstein/envseed/pkg/fileutil"
)

// Backuper copies files aside before they are replaced.
type Backuper interface {
	Backup(task string, files []string) (*backup.Manifest, error)
}

// File writes content to a file atomically. Structured content is encoded
// according to Format.
type File struct {
	task.PlatformSet

	// ID names the task. When empty, Name derives one from Path.
	ID string

	// Path is the file to write.
	Path string

	// Format selects the encoding of Content.
	Format fileutil.Format

	// Content is written as-is for fileutil.FormatRaw and encoded otherwise.
	Content any

	// Perm is the file mode; zero means fileutil.DefaultFilePerm.
	Perm os.FileMode

	// Backups, when set, receives a copy of an existing file with
	// different content before it is replaced.
	Backups Backuper
}

var _ task.Task = (*File)(nil)

// NewFile creates a File task restricted to platforms, or unrestricted
// when none are given.
func NewFile(name, path string, format fileutil.Format, content any, platforms ...platform.Platform) *File {
	return &File{
		PlatformSet: platforms,
		ID:          name,
		Path:        filepath.Clean(path),
		Format:      format,
		Content:     content,
	}
}

// Name implements task.Task.
func (f *File) Name() string {
	if f.ID != "" {
		return f.ID
	}
	return "file " + f.Path
}

// AlreadyProvisioned reports whether the file exists with exactly the
// encoded content. Content that cannot be encoded is never provisioned.
func (f *File) AlreadyProvisioned() bool {
	data, err := fileutil.Marshal(f.Format, f.Content)
	if err != nil {
		return false
	}
	return fileutil.SameContent(f.Path, data)
}

// Execute encodes the content, backs up a differing existing file when
// Backups is set, creates missing parent directories and replaces the
// file atomically.
func (f *File) Execute(ctx context.Context) (result.Result, error) {
	if res, done := cancelled(ctx); done {
		return res, nil
	}

	data, err := fileutil.Marshal(f.Format, f.Content)
	if err != nil {
		return result.Failed("Encoding content failed", err), nil
	}

	var changes []result.Change
	if f.Backups != nil && isRegular(f.Path) && !fileutil.SameContent(f.Path, data) {
		manifest, err := f.Backups.Backup(f.Name(), []string{f.Path})
		if err != nil {
			return result.Failed("Backing up existing file failed", err), nil
		}
		changes = append(changes, result.FileBackedUp(f.Path, manifest.ID))
	}

	parent := filepath.Dir(f.Path)
	missing := missingDirs(parent)
	if len(missing) > 0 {
		if err := os.MkdirAll(parent, 0o755); err != nil {
			return failure("Creating parent directory failed", err, missing), nil
		}
	}

	if err := fileutil.AtomicWriteFile(f.Path, data, f.Perm); err != nil {
		return failure("Writing file failed", err, missing), nil
	}

	changes = append(changes, createdDirs(missing)...)
	changes = append(changes, result.FileWritten(f.Path))
	return result.Successful(changes...), nil
}

func isRegular(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
