// Package config loads envseed plan files using Viper.
package config

import (
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/thoreinstein/envseed/internal/errors"
	"github.com/thoreinstein/envseed/internal/paths"
)

// AppName is the application name used for config file naming.
const AppName = "envseed"

// EnvConfigDir overrides the directory searched for the plan file.
const EnvConfigDir = "ENVSEED_CONFIG_DIR"

// Task types understood by the plan builder.
const (
	TypeDirectory = "directory"
	TypeFile      = "file"
	TypeSymlink   = "symlink"
	TypeGit       = "git"

	// TypeHomeDirectory is a directory below the user's home, given by a
	// relative path. It only applies to Mac and Unix hosts.
	TypeHomeDirectory = "home_directory"
)

// Config is a provisioning plan.
type Config struct {
	Version     int           `mapstructure:"version" yaml:"version"`
	Workers     int           `mapstructure:"workers" yaml:"workers"`
	TaskTimeout time.Duration `mapstructure:"task_timeout" yaml:"task_timeout"`
	Batches     []Batch       `mapstructure:"batches" yaml:"batches"`

	// Backup enables copying files aside before file tasks replace them.
	// BackupDir overrides the backup location and BackupRetention is the
	// number of backups kept per task; zero means the default.
	Backup          bool   `mapstructure:"backup" yaml:"backup,omitempty"`
	BackupDir       string `mapstructure:"backup_dir" yaml:"backup_dir,omitempty"`
	BackupRetention int    `mapstructure:"backup_retention" yaml:"backup_retention,omitempty"`

	// Source is the file the plan was read from, if any.
	Source string `mapstructure:"-" yaml:"-"`
}

// Batch is a named group of tasks that may run concurrently.
type Batch struct {
	Name  string `mapstructure:"name" yaml:"name"`
	Tasks []Task `mapstructure:"tasks" yaml:"tasks"`
}

// Task describes a single provisioning task. Which fields apply depends
// on Type.
type Task struct {
	Name      string   `mapstructure:"name" yaml:"name"`
	Type      string   `mapstructure:"type" yaml:"type"`
	Path      string   `mapstructure:"path" yaml:"path"`
	Platforms []string `mapstructure:"platforms" yaml:"platforms,omitempty"`

	// Format, Mode and Content apply to file tasks. Mode is an octal
	// string such as "0644".
	Format  string `mapstructure:"format" yaml:"format,omitempty"`
	Mode    string `mapstructure:"mode" yaml:"mode,omitempty"`
	Content any    `mapstructure:"content" yaml:"content,omitempty"`

	// Target applies to symlink tasks.
	Target string `mapstructure:"target" yaml:"target,omitempty"`

	// URL, Branch and Depth apply to git tasks.
	URL    string `mapstructure:"url" yaml:"url,omitempty"`
	Branch string `mapstructure:"branch" yaml:"branch,omitempty"`
	Depth  int    `mapstructure:"depth" yaml:"depth,omitempty"`
}

// ConfigDir returns the directory searched for the plan file.
func ConfigDir() string {
	if dir := os.Getenv(EnvConfigDir); dir != "" {
		return dir
	}
	return paths.ConfigDir()
}

// Init resets Viper and configures search paths, environment binding and
// defaults. Call it once before Load.
func Init() {
	viper.Reset()

	// envseed.yaml, envseed.toml, ...
	viper.SetConfigName(AppName)

	// Search paths (in order of precedence)
	viper.AddConfigPath(".")
	viper.AddConfigPath(ConfigDir())

	// ENVSEED_WORKERS, ENVSEED_TASK_TIMEOUT, ENVSEED_BACKUP
	viper.SetEnvPrefix("ENVSEED")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("version", 1)
	viper.SetDefault("workers", 0)
	viper.SetDefault("task_timeout", "0s")
	viper.SetDefault("backup", false)
	viper.SetDefault("backup_dir", "")
	viper.SetDefault("backup_retention", 0)
}

// Load reads and validates the plan.
// If path is provided, it reads from that specific file and a missing file
// is an error marked with errors.ErrNotFound. If path is empty, the default
// locations are searched and a missing file yields a plan without batches.
func Load(path string) (*Config, error) {
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, errors.Mark(errors.Wrapf(err, "config file not found at %s", path), errors.ErrNotFound)
		}
		viper.SetConfigFile(path)
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, errors.Mark(errors.Wrap(err, "reading config file"), errors.ErrInvalidConfig)
		}
		// Implicit load without a file falls back to defaults
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, errors.Mark(errors.Wrap(err, "unmarshaling config"), errors.ErrInvalidConfig)
	}
	cfg.Source = viper.ConfigFileUsed()

	if errs := Validate(&cfg); len(errs) > 0 {
		return &cfg, &ValidationError{Source: cfg.Source, Errs: errs}
	}

	return &cfg, nil
}
