package paths

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/cockroachdb/errors"
)

// AppName names the envseed directories under the XDG base directories.
const AppName = "envseed"

// Sentinel errors for path resolution.
var (
	// ErrHomeDirNotFound indicates the user's home directory could not be determined.
	ErrHomeDirNotFound = errors.New("home directory not found")

	// ErrInvalidPath indicates the provided path is malformed or invalid.
	ErrInvalidPath = errors.New("invalid path")
)

// DefaultDirPerm is the default permission for newly created directories.
const DefaultDirPerm = 0o755

// EnsureDir creates the directory and any necessary parents with specified permissions.
// If perm is 0, DefaultDirPerm is used.
// It returns nil if the directory already exists.
func EnsureDir(path string, perm os.FileMode) error {
	if perm == 0 {
		perm = DefaultDirPerm
	}
	return os.MkdirAll(path, perm)
}

// ResolveHome returns the user's home directory.
// Returns ErrHomeDirNotFound if the directory cannot be determined.
func ResolveHome() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "", errors.Wrap(ErrHomeDirNotFound, "resolving home")
	}
	return home, nil
}

// ConfigHome returns the XDG config home directory.
// On Linux: ~/.config
// On macOS: ~/Library/Application Support
// On Windows: %LOCALAPPDATA%
func ConfigHome() string {
	return xdg.ConfigHome
}

// StateHome returns the XDG state home directory.
// On Linux: ~/.local/state
// On macOS: ~/Library/Application Support
// On Windows: %LOCALAPPDATA%
func StateHome() string {
	return xdg.StateHome
}

// ConfigDir returns the directory searched for envseed plan files.
// Returns: <ConfigHome>/envseed/
func ConfigDir() string {
	return filepath.Join(ConfigHome(), AppName)
}

// StateDir returns the directory run reports are written to by default.
// Returns: <StateHome>/envseed/
func StateDir() string {
	return filepath.Join(StateHome(), AppName)
}

// ExpandHome replaces a leading "~" or "~/" in path with the user's home
// directory and cleans the result. Paths of the form "~user" are rejected
// with ErrInvalidPath. Other paths are returned cleaned.
func ExpandHome(path string) (string, error) {
	if path == "" {
		return "", errors.Wrap(ErrInvalidPath, "empty path")
	}
	if !strings.HasPrefix(path, "~") {
		return filepath.Clean(path), nil
	}

	rest := path[1:]
	if rest != "" && rest[0] != '/' && rest[0] != filepath.Separator {
		return "", errors.Wrapf(ErrInvalidPath, "cannot expand %q", path)
	}

	home, err := ResolveHome()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, rest), nil
}
