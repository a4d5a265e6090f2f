// Package editor launches the user's preferred text editor.
package editor

import (
	"context"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/thoreinstein/envseed/internal/errors"
)

// Streams are the standard streams handed to the editor process.
type Streams struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// Open runs the user's editor on path and waits for it to exit. The editor
// command may carry arguments, e.g. EDITOR="code --wait".
func Open(ctx context.Context, path string, s Streams) error {
	fields := strings.Fields(detectEditor())
	args := append(fields[1:], path)

	cmd := exec.CommandContext(ctx, fields[0], args...)
	cmd.Stdin = s.In
	cmd.Stdout = s.Out
	cmd.Stderr = s.Err

	if err := cmd.Run(); err != nil {
		return errors.Wrapf(err, "running editor %s", fields[0])
	}
	return nil
}

// EnvEditor selects the editor for envseed alone, ahead of EDITOR.
const EnvEditor = "ENVSEED_EDITOR"

// detectEditor returns the editor command: the first non-blank of
// ENVSEED_EDITOR, EDITOR and VISUAL, then nano when installed, then vi.
func detectEditor() string {
	for _, key := range []string{EnvEditor, "EDITOR", "VISUAL"} {
		if editor := strings.TrimSpace(os.Getenv(key)); editor != "" {
			return editor
		}
	}

	if _, err := exec.LookPath("nano"); err == nil {
		return "nano"
	}

	// vi is available on every POSIX system
	return "vi"
}
