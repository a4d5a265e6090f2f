package config

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/thoreinstein/envseed/internal/errors"
	"github.com/thoreinstein/envseed/internal/git"
	"github.com/thoreinstein/envseed/internal/platform"
	"github.com/thoreinstein/envseed/pkg/fileutil"
)

// Validation errors for configuration fields.
var (
	// ErrVersionTooLow indicates the version field is below the minimum.
	ErrVersionTooLow = errors.New("version must be >= 1")

	// ErrNegativeWorkers indicates a negative worker count.
	ErrNegativeWorkers = errors.New("workers must be >= 0")

	// ErrNegativeTimeout indicates a negative task timeout.
	ErrNegativeTimeout = errors.New("task_timeout must be >= 0")

	// ErrNegativeDepth indicates a negative git clone depth.
	ErrNegativeDepth = errors.New("depth must be >= 0")

	// ErrNegativeRetention indicates a negative backup retention count.
	ErrNegativeRetention = errors.New("backup_retention must be >= 0")

	// ErrNoBatches indicates a plan without batches.
	ErrNoBatches = errors.New("plan has no batches")

	// ErrMissingName indicates an unnamed batch or task.
	ErrMissingName = errors.New("name is required")

	// ErrDuplicateName indicates two tasks share a name.
	ErrDuplicateName = errors.New("duplicate task name")

	// ErrInvalidPlatform indicates an unrecognized platform name.
	ErrInvalidPlatform = errors.New("invalid platform")

	// ErrInvalidPath indicates a path value is malformed.
	ErrInvalidPath = errors.New("invalid path")

	// ErrInvalidFormat indicates an unknown file format.
	ErrInvalidFormat = errors.New("invalid format")

	// ErrInvalidMode indicates a mode that is not an octal permission.
	ErrInvalidMode = errors.New("invalid mode")

	// ErrNotHomeRelative indicates a home_directory path that is absolute
	// or leaves the home directory.
	ErrNotHomeRelative = errors.New("path must be relative to the home directory")

	// ErrPlatformsFixed indicates a platforms list on a task type whose
	// platforms are fixed.
	ErrPlatformsFixed = errors.New("platforms cannot be set for this task type")

	// ErrMissingTarget indicates a symlink task without a target.
	ErrMissingTarget = errors.New("target is required")
)

// Validate checks a Config for validity.
// Returns nil if valid, or a slice of validation errors.
func Validate(cfg *Config) []error {
	if cfg == nil {
		return []error{errors.New("config is nil")}
	}

	var errs []error

	if cfg.Version < 1 {
		errs = append(errs, ErrVersionTooLow)
	}
	if cfg.Workers < 0 {
		errs = append(errs, ErrNegativeWorkers)
	}
	if cfg.TaskTimeout < 0 {
		errs = append(errs, ErrNegativeTimeout)
	}
	if cfg.BackupRetention < 0 {
		errs = append(errs, ErrNegativeRetention)
	}
	if len(cfg.Batches) == 0 {
		errs = append(errs, ErrNoBatches)
	}

	seen := make(map[string]bool)
	for i, b := range cfg.Batches {
		if b.Name == "" {
			errs = append(errs, &TaskError{Batch: fmt.Sprintf("#%d", i), Err: ErrMissingName})
		}
		for j, t := range b.Tasks {
			if t.Name == "" {
				errs = append(errs, &TaskError{Batch: b.Name, Task: fmt.Sprintf("#%d", j), Err: ErrMissingName})
			} else if seen[t.Name] {
				errs = append(errs, &TaskError{Batch: b.Name, Task: t.Name, Err: ErrDuplicateName})
			}
			seen[t.Name] = true

			errs = append(errs, validateTask(b.Name, i, j, t)...)
		}
	}

	return errs
}

func validateTask(batch string, i, j int, t Task) []error {
	var errs []error
	field := func(name string) string {
		return fmt.Sprintf("batches[%d].tasks[%d].%s", i, j, name)
	}
	taskErr := func(err error) error {
		return &TaskError{Batch: batch, Task: t.Name, Err: err}
	}

	switch t.Type {
	case TypeDirectory, TypeHomeDirectory, TypeFile, TypeSymlink, TypeGit:
	default:
		errs = append(errs, taskErr(errors.Wrapf(errors.ErrUnknownTaskType, "%q", t.Type)))
	}

	if err := validatePath(t.Path); err != nil {
		errs = append(errs, &PathError{Field: field("path"), Path: t.Path, Err: err})
	}

	for _, name := range t.Platforms {
		if _, ok := ParsePlatform(name); !ok {
			errs = append(errs, taskErr(invalidPlatform(name)))
		}
	}

	switch t.Type {
	case TypeHomeDirectory:
		if !homeRelative(t.Path) {
			errs = append(errs, &PathError{Field: field("path"), Path: t.Path, Err: ErrNotHomeRelative})
		}
		if len(t.Platforms) > 0 {
			errs = append(errs, taskErr(ErrPlatformsFixed))
		}
	case TypeFile:
		if _, err := fileutil.ParseFormat(t.Format); err != nil {
			errs = append(errs, taskErr(errors.Wrapf(ErrInvalidFormat, "%q", t.Format)))
		}
		if _, err := ParseMode(t.Mode); err != nil {
			errs = append(errs, taskErr(err))
		}
	case TypeSymlink:
		if t.Target == "" {
			errs = append(errs, taskErr(ErrMissingTarget))
		}
	case TypeGit:
		if err := git.ValidateURL(t.URL); err != nil {
			errs = append(errs, taskErr(err))
		}
		if t.Depth < 0 {
			errs = append(errs, taskErr(ErrNegativeDepth))
		}
	}

	return errs
}

// homeRelative reports whether path names a location strictly inside the
// home directory without using "~".
func homeRelative(path string) bool {
	if path == "" || filepath.IsAbs(path) || strings.HasPrefix(path, "~") {
		return false
	}
	cleaned := filepath.Clean(path)
	return cleaned != "." && cleaned != ".." && !strings.HasPrefix(cleaned, ".."+string(filepath.Separator))
}

// invalidPlatform wraps ErrInvalidPlatform with the accepted names.
func invalidPlatform(name string) error {
	known := make([]string, 0, len(platform.All()))
	for _, p := range platform.All() {
		known = append(known, p.String())
	}
	return errors.Wrapf(ErrInvalidPlatform, "%q (want one of %s)", name, strings.Join(known, ", "))
}

// ParsePlatform parses a platform name from a plan case-insensitively.
func ParsePlatform(name string) (platform.Platform, bool) {
	return platform.Parse(strings.ToLower(strings.TrimSpace(name)))
}

// ParseMode parses an octal permission string. An empty string yields 0,
// meaning the default mode.
func ParseMode(mode string) (uint32, error) {
	if mode == "" {
		return 0, nil
	}
	m, err := strconv.ParseUint(strings.TrimPrefix(mode, "0o"), 8, 32)
	if err != nil || m > 0o7777 {
		return 0, errors.Wrapf(ErrInvalidMode, "%q", mode)
	}
	return uint32(m), nil
}

// validatePath checks if a path string is well-formed.
// It does not check if the path exists, only that it's syntactically valid.
func validatePath(path string) error {
	if path == "" {
		return ErrInvalidPath
	}

	// Null bytes are never valid in paths
	if strings.ContainsRune(path, '\x00') {
		return ErrInvalidPath
	}

	cleaned := filepath.Clean(path)
	if cleaned == "." {
		return ErrInvalidPath
	}

	return nil
}

// TaskError represents an error for a specific batch or task.
type TaskError struct {
	Batch string
	Task  string
	Err   error
}

func (e *TaskError) Error() string {
	if e.Task == "" {
		return "batch " + e.Batch + ": " + e.Err.Error()
	}
	return "batch " + e.Batch + ", task " + e.Task + ": " + e.Err.Error()
}

func (e *TaskError) Unwrap() error {
	return e.Err
}

// PathError represents an error for a specific path field.
type PathError struct {
	Field string
	Path  string
	Err   error
}

func (e *PathError) Error() string {
	return e.Field + ": " + e.Err.Error() + ": " + e.Path
}

func (e *PathError) Unwrap() error {
	return e.Err
}

// ValidationError collects every problem found in a plan.
type ValidationError struct {
	Source string
	Errs   []error
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Errs))
	for i, err := range e.Errs {
		msgs[i] = err.Error()
	}
	return "validating config: " + strings.Join(msgs, "; ")
}

// Is reports whether target is errors.ErrInvalidConfig.
func (e *ValidationError) Is(target error) bool {
	return target == errors.ErrInvalidConfig
}

// Unwrap returns the individual validation errors.
func (e *ValidationError) Unwrap() []error {
	return e.Errs
}
