// Package fileutil provides encoding and atomic write helpers for files
// managed by envseed.
package fileutil

import (
	"os"
	"path/filepath"

	"github.com/thoreinstein/envseed/internal/errors"
)

// DefaultFilePerm is used when a caller passes a zero permission.
const DefaultFilePerm os.FileMode = 0o644

// AtomicWriteFile writes data to path through a temp file in the same
// directory followed by a rename, so an interrupted write leaves any
// previous file intact.
//
// The parent directory must exist. A zero perm means DefaultFilePerm.
func AtomicWriteFile(path string, data []byte, perm os.FileMode) error {
	if perm == 0 {
		perm = DefaultFilePerm
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".envseed-*.tmp")
	if err != nil {
		return errors.Wrap(err, "creating temp file")
	}

	tmpName := tmp.Name()
	renamed := false
	defer func() {
		if !renamed {
			os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrap(err, "writing temp file")
	}
	if err := tmp.Chmod(perm); err != nil {
		tmp.Close()
		return errors.Wrap(err, "setting file permissions")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "closing temp file")
	}
	if err := os.Rename(tmpName, path); err != nil {
		return errors.Wrapf(err, "renaming temp file to %s", path)
	}
	renamed = true

	return nil
}

// AtomicWrite encodes v in the given format and writes it atomically.
func AtomicWrite(path string, format Format, v any, perm os.FileMode) error {
	data, err := Marshal(format, v)
	if err != nil {
		return err
	}
	return AtomicWriteFile(path, data, perm)
}

// AtomicWriteJSON writes v as indented JSON with a trailing newline.
// The file is created with DefaultFilePerm.
func AtomicWriteJSON(path string, v any) error {
	return AtomicWrite(path, FormatJSON, v, DefaultFilePerm)
}
