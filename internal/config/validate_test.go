package config

import (
	"strings"
	"testing"

	"github.com/thoreinstein/envseed/internal/errors"
	"github.com/thoreinstein/envseed/internal/git"
	"github.com/thoreinstein/envseed/internal/platform"
)

func validConfig() *Config {
	return &Config{
		Version: 1,
		Batches: []Batch{{
			Name: "base",
			Tasks: []Task{
				{Name: "dir", Type: TypeDirectory, Path: "~/data"},
				{Name: "file", Type: TypeFile, Path: "~/f.json", Format: "json", Mode: "0600"},
				{Name: "link", Type: TypeSymlink, Path: "~/l", Target: "/opt"},
				{Name: "dotfiles", Type: TypeGit, Path: "~/dotfiles", URL: "https://example.com/dotfiles.git", Depth: 1},
				{Name: "cache", Type: TypeHomeDirectory, Path: ".cache/envseed"},
			},
		}},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{"valid", func(*Config) {}, nil},
		{"version too low", func(c *Config) { c.Version = 0 }, ErrVersionTooLow},
		{"negative workers", func(c *Config) { c.Workers = -1 }, ErrNegativeWorkers},
		{"negative timeout", func(c *Config) { c.TaskTimeout = -1 }, ErrNegativeTimeout},
		{"negative retention", func(c *Config) { c.BackupRetention = -1 }, ErrNegativeRetention},
		{"no batches", func(c *Config) { c.Batches = nil }, ErrNoBatches},
		{"unnamed batch", func(c *Config) { c.Batches[0].Name = "" }, ErrMissingName},
		{"unnamed task", func(c *Config) { c.Batches[0].Tasks[0].Name = "" }, ErrMissingName},
		{"duplicate task", func(c *Config) { c.Batches[0].Tasks[1].Name = "dir" }, ErrDuplicateName},
		{"unknown type", func(c *Config) { c.Batches[0].Tasks[0].Type = "package" }, errors.ErrUnknownTaskType},
		{"empty path", func(c *Config) { c.Batches[0].Tasks[0].Path = "" }, ErrInvalidPath},
		{"null byte path", func(c *Config) { c.Batches[0].Tasks[0].Path = "a\x00b" }, ErrInvalidPath},
		{"bad platform", func(c *Config) { c.Batches[0].Tasks[0].Platforms = []string{"beos"} }, ErrInvalidPlatform},
		{"bad format", func(c *Config) { c.Batches[0].Tasks[1].Format = "ini" }, ErrInvalidFormat},
		{"bad mode", func(c *Config) { c.Batches[0].Tasks[1].Mode = "0999" }, ErrInvalidMode},
		{"missing target", func(c *Config) { c.Batches[0].Tasks[2].Target = "" }, ErrMissingTarget},
		{"bad git url", func(c *Config) { c.Batches[0].Tasks[3].URL = "ext::sh -c id" }, git.ErrInvalidURL},
		{"negative depth", func(c *Config) { c.Batches[0].Tasks[3].Depth = -1 }, ErrNegativeDepth},
		{"absolute home directory", func(c *Config) { c.Batches[0].Tasks[4].Path = "/var/cache" }, ErrNotHomeRelative},
		{"tilde home directory", func(c *Config) { c.Batches[0].Tasks[4].Path = "~/.cache" }, ErrNotHomeRelative},
		{"home directory escaping home", func(c *Config) { c.Batches[0].Tasks[4].Path = "../other" }, ErrNotHomeRelative},
		{"home directory with platforms", func(c *Config) { c.Batches[0].Tasks[4].Platforms = []string{"unix"} }, ErrPlatformsFixed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			errs := Validate(cfg)
			if tt.wantErr == nil {
				if len(errs) != 0 {
					t.Fatalf("Validate() = %v, want no errors", errs)
				}
				return
			}
			if len(errs) != 1 {
				t.Fatalf("Validate() = %v, want exactly one error", errs)
			}
			if !errors.Is(errs[0], tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", errs[0], tt.wantErr)
			}
		})
	}
}

func TestValidate_InvalidPlatformListsKnownNames(t *testing.T) {
	cfg := validConfig()
	cfg.Batches[0].Tasks[0].Platforms = []string{"beos"}

	errs := Validate(cfg)
	if len(errs) != 1 {
		t.Fatalf("Validate() = %v, want one error", errs)
	}
	if want := `"beos" (want one of unknown, mac, windows, unix)`; !strings.Contains(errs[0].Error(), want) {
		t.Errorf("error = %q, want it to contain %q", errs[0].Error(), want)
	}
}

func TestValidate_Nil(t *testing.T) {
	if errs := Validate(nil); len(errs) != 1 {
		t.Errorf("Validate(nil) = %v, want one error", errs)
	}
}

func TestValidate_ErrorMessages(t *testing.T) {
	cfg := validConfig()
	cfg.Batches[0].Tasks[0].Path = ""
	cfg.Batches[0].Tasks[2].Target = ""

	errs := Validate(cfg)
	if len(errs) != 2 {
		t.Fatalf("Validate() = %v, want two errors", errs)
	}

	var pathErr *PathError
	if !errors.As(errs[0], &pathErr) || pathErr.Field != "batches[0].tasks[0].path" {
		t.Errorf("errs[0] = %v, want PathError for the first task path", errs[0])
	}

	var taskErr *TaskError
	if !errors.As(errs[1], &taskErr) || taskErr.Task != "link" || taskErr.Batch != "base" {
		t.Errorf("errs[1] = %v, want TaskError for link", errs[1])
	}
	if got := errs[1].Error(); got != "batch base, task link: target is required" {
		t.Errorf("errs[1].Error() = %q", got)
	}

	verr := &ValidationError{Errs: errs}
	if !errors.Is(verr, errors.ErrInvalidConfig) {
		t.Error("ValidationError should match ErrInvalidConfig")
	}
	if !strings.HasPrefix(verr.Error(), "validating config: ") || !strings.Contains(verr.Error(), "; ") {
		t.Errorf("ValidationError.Error() = %q", verr.Error())
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    uint32
		wantErr bool
	}{
		{"", 0, false},
		{"0644", 0o644, false},
		{"755", 0o755, false},
		{"0o600", 0o600, false},
		{"rw-r--r--", 0, true},
		{"0999", 0, true},
		{"17777", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMode(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseMode(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseMode(%q) = %o, want %o", tt.in, got, tt.want)
			}
		})
	}
}

func TestParsePlatform(t *testing.T) {
	tests := []struct {
		in     string
		want   platform.Platform
		wantOK bool
	}{
		{"mac", platform.Mac, true},
		{"Unix", platform.Unix, true},
		{" WINDOWS ", platform.Windows, true},
		{"linux", platform.Unknown, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParsePlatform(tt.in)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("ParsePlatform(%q) = %v, %v, want %v, %v", tt.in, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}
