package tasks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/thoreinstein/envseed/internal/check"
	"github.com/thoreinstein/envseed/internal/git"
	"github.com/thoreinstein/envseed/internal/platform"
	"github.com/thoreinstein/envseed/internal/result"
	"github.com/thoreinstein/envseed/internal/task"
)

// GitRepo ensures Path is a clone of URL.
type GitRepo struct {
	task.PlatformSet

	// ID names the task. When empty, Name derives one from Path.
	ID string

	// Path is the clone destination.
	Path string

	// URL is the repository to clone.
	URL string

	// Branch and Depth are passed to git clone.
	Branch string
	Depth  int
}

var _ task.Task = (*GitRepo)(nil)

// NewGitRepo creates a GitRepo task restricted to platforms, or
// unrestricted when none are given.
func NewGitRepo(name, path, url string, platforms ...platform.Platform) *GitRepo {
	return &GitRepo{
		PlatformSet: platforms,
		ID:          name,
		Path:        filepath.Clean(path),
		URL:         url,
	}
}

// Name implements task.Task.
func (g *GitRepo) Name() string {
	if g.ID != "" {
		return g.ID
	}
	return "git repository " + g.Path
}

// AlreadyProvisioned reports whether Path is a clone whose origin is URL.
func (g *GitRepo) AlreadyProvisioned() bool {
	if git.ValidateRepository(g.Path) != nil {
		return false
	}
	remote, err := git.RemoteURL(context.Background(), g.Path)
	return err == nil && remote == g.URL
}

// CustomValidations aborts when git is missing or Path holds anything but
// an empty directory or a clone of URL.
func (g *GitRepo) CustomValidations() check.Check {
	return func() check.Outcome {
		if !git.Available() {
			return check.Abort("git executable not found")
		}
		return check.Next(g.checkDestination)
	}
}

func (g *GitRepo) checkDestination() check.Outcome {
	info, err := os.Stat(g.Path)
	switch {
	case os.IsNotExist(err):
		return check.Proceed("clone location is free")
	case err != nil:
		return check.Abort(fmt.Sprintf("cannot inspect %s: %v", g.Path, err))
	case !info.IsDir():
		return check.Abort(fmt.Sprintf("%s exists and is not a directory", g.Path))
	}

	if git.ValidateRepository(g.Path) == nil {
		remote, _ := git.RemoteURL(context.Background(), g.Path)
		return check.Abort(fmt.Sprintf("%s is a clone of %q", g.Path, remote))
	}

	entries, err := os.ReadDir(g.Path)
	if err != nil {
		return check.Abort(fmt.Sprintf("cannot inspect %s: %v", g.Path, err))
	}
	if len(entries) > 0 {
		return check.Abort(fmt.Sprintf("%s is not empty", g.Path))
	}
	return check.Proceed("clone location is empty")
}

// Execute clones URL into Path, creating missing parent directories first.
func (g *GitRepo) Execute(ctx context.Context) (result.Result, error) {
	if res, done := cancelled(ctx); done {
		return res, nil
	}

	parent := filepath.Dir(g.Path)
	missing := missingDirs(parent)
	if len(missing) > 0 {
		if err := os.MkdirAll(parent, 0o755); err != nil {
			return failure("Creating parent directory failed", err, missing), nil
		}
	}

	opts := git.CloneOptions{Branch: g.Branch, Depth: g.Depth}
	if err := git.Clone(ctx, g.URL, g.Path, opts); err != nil {
		return failure("Cloning repository failed", err, missing), nil
	}

	changes := createdDirs(missing)
	changes = append(changes, result.RepositoryCloned(g.Path, g.URL))
	return result.Successful(changes...), nil
}
