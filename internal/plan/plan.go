// Package plan turns a validated configuration into provisioner batches.
package plan

import (
	"io/fs"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/thoreinstein/envseed/internal/config"
	"github.com/thoreinstein/envseed/internal/errors"
	"github.com/thoreinstein/envseed/internal/git"
	"github.com/thoreinstein/envseed/internal/paths"
	"github.com/thoreinstein/envseed/internal/platform"
	"github.com/thoreinstein/envseed/internal/provisioner"
	"github.com/thoreinstein/envseed/internal/task"
	"github.com/thoreinstein/envseed/internal/tasks"
	"github.com/thoreinstein/envseed/pkg/fileutil"
)

// Spec is a task entry with its path expanded and platforms parsed.
type Spec struct {
	config.Task

	// Path is the absolute, home-expanded location.
	Path string

	// Platforms restricts the task; empty means every platform.
	Platforms []platform.Platform

	// Backups receives files about to be replaced; nil disables backups.
	Backups tasks.Backuper
}

// Option configures Build.
type Option func(*options)

type options struct {
	backups tasks.Backuper
}

// WithBackups makes file tasks back up the files they replace.
func WithBackups(b tasks.Backuper) Option {
	return func(o *options) {
		o.backups = b
	}
}

// Factory builds a task from its spec.
type Factory func(s Spec) (task.Task, error)

var (
	registryMu sync.RWMutex
	registry   = map[string]Factory{
		config.TypeDirectory:     newDirectory,
		config.TypeHomeDirectory: newHomeDirectory,
		config.TypeFile:          newFile,
		config.TypeSymlink:       newSymlink,
		config.TypeGit:           newGitRepo,
	}
)

// Register adds or replaces the factory for a task type.
func Register(typ string, f Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[typ] = f
}

// Types returns the registered task types, sorted.
func Types() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return slices.Sorted(maps.Keys(registry))
}

func lookup(typ string) (Factory, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	f, ok := registry[typ]
	return f, ok
}

// Build converts cfg into batches in declaration order.
// Unknown task types yield an error marked with errors.ErrUnknownTaskType.
func Build(cfg *config.Config, opts ...Option) ([]provisioner.Batch, error) {
	if cfg == nil {
		return nil, errors.Wrap(errors.ErrInvalidConfig, "nil config")
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	batches := make([]provisioner.Batch, 0, len(cfg.Batches))
	for _, b := range cfg.Batches {
		batch := provisioner.Batch{Name: b.Name}
		for _, tc := range b.Tasks {
			t, err := buildTask(tc, o)
			if err != nil {
				return nil, errors.Wrapf(err, "batch %s, task %s", b.Name, tc.Name)
			}
			batch.Tasks = append(batch.Tasks, t)
		}
		batches = append(batches, batch)
	}

	return batches, nil
}

func buildTask(tc config.Task, o options) (task.Task, error) {
	factory, ok := lookup(tc.Type)
	if !ok {
		return nil, errors.Wrapf(errors.ErrUnknownTaskType, "%q (known: %s)", tc.Type, strings.Join(Types(), ", "))
	}

	path, err := paths.ExpandHome(tc.Path)
	if err != nil {
		return nil, err
	}

	platforms := make([]platform.Platform, 0, len(tc.Platforms))
	for _, name := range tc.Platforms {
		p, ok := config.ParsePlatform(name)
		if !ok {
			return nil, errors.Wrapf(config.ErrInvalidPlatform, "%q", name)
		}
		platforms = append(platforms, p)
	}

	return factory(Spec{Task: tc, Path: path, Platforms: platforms, Backups: o.backups})
}

func newDirectory(s Spec) (task.Task, error) {
	return tasks.NewDirectory(s.Name, s.Path, s.Platforms...), nil
}

func newHomeDirectory(s Spec) (task.Task, error) {
	return tasks.NewHomeDirectory(s.Name, s.Task.Path)
}

func newFile(s Spec) (task.Task, error) {
	format, err := fileutil.ParseFormat(s.Format)
	if err != nil {
		return nil, err
	}
	mode, err := config.ParseMode(s.Mode)
	if err != nil {
		return nil, err
	}

	f := tasks.NewFile(s.Name, s.Path, format, s.Content, s.Platforms...)
	f.Perm = fs.FileMode(mode)
	f.Backups = s.Backups
	return f, nil
}

func newSymlink(s Spec) (task.Task, error) {
	if s.Target == "" {
		return nil, config.ErrMissingTarget
	}
	target := s.Target
	if target[0] == '~' {
		expanded, err := paths.ExpandHome(target)
		if err != nil {
			return nil, err
		}
		target = expanded
	}
	return tasks.NewSymlink(s.Name, s.Path, target, s.Platforms...), nil
}

func newGitRepo(s Spec) (task.Task, error) {
	if err := git.ValidateURL(s.URL); err != nil {
		return nil, err
	}
	g := tasks.NewGitRepo(s.Name, s.Path, s.URL, s.Platforms...)
	g.Branch = s.Branch
	g.Depth = s.Depth
	return g, nil
}
