package backup

import (
	"path/filepath"
	"strings"

	"github.com/thoreinstein/envseed/internal/paths"
)

// Dir returns the root backup directory, $XDG_STATE_HOME/envseed/backups.
func Dir() string {
	return filepath.Join(paths.StateDir(), "backups")
}

// taskDirName maps a task name to a single path element.
func taskDirName(task string) string {
	r := strings.NewReplacer("/", "_", "\\", "_", ":", "_", " ", "-")
	name := r.Replace(strings.TrimSpace(task))
	if name == "" || name == "." || name == ".." {
		return "_"
	}
	return name
}

// relPath returns the storage location of absPath inside a backup
// directory. Volume names and separators at the root are dropped.
func relPath(absPath string) string {
	clean := filepath.Clean(absPath)
	clean = strings.TrimPrefix(clean, filepath.VolumeName(clean))
	clean = strings.TrimLeft(clean, `/\`)
	return strings.ReplaceAll(clean, ":", "")
}
