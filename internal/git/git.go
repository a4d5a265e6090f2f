// Package git wraps the git executable for cloning repositories and
// inspecting existing clones.
package git

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/thoreinstein/envseed/internal/errors"
)

// ErrInvalidURL indicates a repository URL that is empty, uses an
// unsupported scheme or could be mistaken for a command-line option.
var ErrInvalidURL = errors.New("invalid repository URL")

// ErrNotRepository indicates a directory without a .git directory.
var ErrNotRepository = errors.New("not a git repository")

// allowedSchemes are the transport schemes accepted by ValidateURL.
var allowedSchemes = []string{"https://", "http://", "ssh://", "git://", "file://"}

// scpLike matches user@host:path.git.
var scpLike = regexp.MustCompile(`^[A-Za-z0-9._-]+@[A-Za-z0-9.-]+:[A-Za-z0-9._/~-]+\.git$`)

// ValidateURL checks that url names a repository git can clone without
// interpreting it as an option or a remote helper such as ext::.
func ValidateURL(url string) error {
	if url == "" {
		return errors.Wrap(ErrInvalidURL, "empty")
	}
	if strings.HasPrefix(url, "-") {
		return errors.Wrapf(ErrInvalidURL, "%q looks like an option", url)
	}
	for _, scheme := range allowedSchemes {
		if strings.HasPrefix(url, scheme) && len(url) > len(scheme) {
			return nil
		}
	}
	if scpLike.MatchString(url) {
		return nil
	}
	return errors.Wrapf(ErrInvalidURL, "%q", url)
}

// CloneOptions tune Clone.
type CloneOptions struct {
	// Branch checks out this branch or tag instead of the remote HEAD.
	Branch string

	// Depth creates a shallow clone with that many commits; zero clones
	// the full history.
	Depth int
}

// Clone clones url into dest. Output is captured and the tail of stderr
// is included in the returned error. ctx cancellation kills git.
func Clone(ctx context.Context, url, dest string, opts CloneOptions) error {
	if err := ValidateURL(url); err != nil {
		return err
	}

	args := []string{"clone", "--quiet"}
	if opts.Depth > 0 {
		args = append(args, "--depth="+strconv.Itoa(opts.Depth))
	}
	if opts.Branch != "" {
		args = append(args, "--branch", opts.Branch)
	}
	args = append(args, "--", url, dest)

	if _, err := run(ctx, args...); err != nil {
		return errors.Wrap(err, "git clone failed")
	}
	return nil
}

// RemoteURL returns the origin URL of the repository at repoPath.
func RemoteURL(ctx context.Context, repoPath string) (string, error) {
	out, err := run(ctx, "-C", repoPath, "config", "--get", "remote.origin.url")
	if err != nil {
		return "", errors.Wrap(err, "reading remote URL")
	}
	return strings.TrimSpace(out), nil
}

// ValidateRepository checks that repoPath holds a .git directory.
func ValidateRepository(repoPath string) error {
	gitDir := filepath.Join(repoPath, ".git")
	info, err := os.Stat(gitDir)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.Wrapf(ErrNotRepository, "%s", repoPath)
		}
		return errors.Wrap(err, "checking git directory")
	}
	if !info.IsDir() {
		return errors.Newf(".git is not a directory: %s", gitDir)
	}
	return nil
}

// Available reports whether a git executable is on PATH.
func Available() bool {
	_, err := exec.LookPath("git")
	return err == nil
}

func run(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Env = append(os.Environ(), "GIT_TERMINAL_PROMPT=0")

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := lastLine(stderr.String()); msg != "" {
			return "", errors.Wrapf(err, "%s", msg)
		}
		return "", err
	}
	return stdout.String(), nil
}

func lastLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return s[i+1:]
	}
	return s
}
