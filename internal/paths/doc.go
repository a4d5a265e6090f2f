// Package paths resolves the filesystem locations envseed reads from and
// provisions into.
//
// # XDG Base Directory Compliance
//
// The package wraps github.com/adrg/xdg for cross-platform XDG Base Directory
// Specification compliance. Plan files are searched in [ConfigDir] and run
// reports default to [StateDir]:
//
//	paths.ConfigDir() // ~/.config/envseed on Linux
//	paths.StateDir()  // ~/.local/state/envseed on Linux
//
// # Home Expansion
//
// Task paths in a plan may start with "~". [ExpandHome] turns them into
// absolute paths:
//
//	p, err := paths.ExpandHome("~/.local/share/myapp")
//
// # Error Handling
//
// Functions that can fail return errors marked with [ErrHomeDirNotFound] or
// [ErrInvalidPath]; test for them with errors.Is.
package paths
