package tasks

import (
	"context"
	"os"
	"path/filepath"

	"github.com/thoreinstein/envseed/internal/result"
)

// missingDirs returns dir and those of its ancestors that do not exist,
// outermost first.
func missingDirs(dir string) []string {
	var missing []string
	for d := filepath.Clean(dir); ; {
		if _, err := os.Lstat(d); err == nil || !os.IsNotExist(err) {
			break
		}
		missing = append(missing, d)

		parent := filepath.Dir(d)
		if parent == d {
			break
		}
		d = parent
	}

	// reverse so parents come first
	for i, j := 0, len(missing)-1; i < j; i, j = i+1, j-1 {
		missing[i], missing[j] = missing[j], missing[i]
	}
	return missing
}

// createdDirs returns the changes for those of dirs that exist now.
func createdDirs(dirs []string) []result.Change {
	var changes []result.Change
	for _, d := range dirs {
		if info, err := os.Stat(d); err == nil && info.IsDir() {
			changes = append(changes, result.DirectoryCreated(d))
		}
	}
	return changes
}

// failure reports err as Partial when some directories in created exist,
// and as Failed otherwise. Both carry reason and err.
func failure(reason string, err error, created []string) result.Result {
	if changes := createdDirs(created); len(changes) > 0 {
		return result.Partial(changes...).WithReason(reason, err)
	}
	return result.Failed(reason, err)
}

// cancelled returns a Failed result when ctx is already done.
func cancelled(ctx context.Context) (result.Result, bool) {
	if err := ctx.Err(); err != nil {
		return result.Failed("Cancelled before provisioning", err), true
	}
	return result.Result{}, false
}
