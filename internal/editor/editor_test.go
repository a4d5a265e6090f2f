package editor

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectEditor(t *testing.T) {
	fallback := "vi"
	if _, err := exec.LookPath("nano"); err == nil {
		fallback = "nano"
	}

	tests := []struct {
		name    string
		envseed string
		editor  string
		visual  string
		want    string
	}{
		{"envseed editor wins", "hx", "nvim", "code", "hx"},
		{"EDITOR", "", "nvim", "code", "nvim"},
		{"VISUAL", "", "", "code --wait", "code --wait"},
		{"blank values fall through", "  ", "\t", " emacs ", "emacs"},
		{"nothing set", "", "", "", fallback},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(EnvEditor, tt.envseed)
			t.Setenv("EDITOR", tt.editor)
			t.Setenv("VISUAL", tt.visual)

			assert.Equal(t, tt.want, detectEditor())
		})
	}
}

// recordingEditor installs a shell script editor that writes its
// arguments to the returned file.
func recordingEditor(t *testing.T, extraArgs string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("uses a shell script editor")
	}

	dir := t.TempDir()
	script := filepath.Join(dir, "editor.sh")
	record := filepath.Join(dir, "args.txt")
	body := "#!/bin/sh\necho \"$@\" > " + record + "\n"
	require.NoError(t, os.WriteFile(script, []byte(body), 0o755))

	t.Setenv(EnvEditor, "")
	t.Setenv("EDITOR", strings.TrimSpace(script+" "+extraArgs))
	return record
}

func TestOpen(t *testing.T) {
	tests := []struct {
		name     string
		extra    string
		wantArgs string
	}{
		{"plain command", "", "envseed.yaml"},
		{"command with arguments", "--wait --new-window", "--wait --new-window envseed.yaml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := recordingEditor(t, tt.extra)

			require.NoError(t, Open(context.Background(), "envseed.yaml", Streams{}))

			got, err := os.ReadFile(record)
			require.NoError(t, err)
			assert.Equal(t, tt.wantArgs, strings.TrimSpace(string(got)))
		})
	}
}

func TestOpen_MissingEditor(t *testing.T) {
	t.Setenv(EnvEditor, "envseed-no-such-editor")

	err := Open(context.Background(), "envseed.yaml", Streams{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "running editor envseed-no-such-editor")
}

func TestOpen_EditorExitStatus(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses a shell script editor")
	}
	script := filepath.Join(t.TempDir(), "quit.sh")
	require.NoError(t, os.WriteFile(script, []byte("#!/bin/sh\nexit 3\n"), 0o755))
	t.Setenv(EnvEditor, script)

	err := Open(context.Background(), "envseed.yaml", Streams{})
	var exitErr *exec.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 3, exitErr.ExitCode())
}
