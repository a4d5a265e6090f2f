package plan

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/thoreinstein/envseed/internal/backup"
	"github.com/thoreinstein/envseed/internal/config"
	"github.com/thoreinstein/envseed/internal/errors"
	"github.com/thoreinstein/envseed/internal/git"
	"github.com/thoreinstein/envseed/internal/platform"
	"github.com/thoreinstein/envseed/internal/provisioner"
	"github.com/thoreinstein/envseed/internal/result"
	"github.com/thoreinstein/envseed/internal/task"
	"github.com/thoreinstein/envseed/internal/tasks"
	"github.com/thoreinstein/envseed/pkg/fileutil"
)

func setHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	if runtime.GOOS == "windows" {
		t.Setenv("USERPROFILE", home)
	}
	return home
}

func TestBuild(t *testing.T) {
	home := setHome(t)

	cfg := &config.Config{
		Version: 1,
		Batches: []config.Batch{
			{Name: "dirs", Tasks: []config.Task{
				{Name: "data", Type: config.TypeDirectory, Path: "~/.local/share/myapp", Platforms: []string{"unix", "Mac"}},
			}},
			{Name: "files", Tasks: []config.Task{
				{Name: "settings", Type: config.TypeFile, Path: "~/.config/myapp/settings.json", Format: "json", Mode: "0600", Content: map[string]any{"theme": "dark"}},
				{Name: "link", Type: config.TypeSymlink, Path: "~/bin/myapp", Target: "~/.local/share/myapp"},
			}},
		},
	}

	batches, err := Build(cfg)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if len(batches) != 2 || len(batches[0].Tasks) != 1 || len(batches[1].Tasks) != 2 {
		t.Fatalf("Build() = %+v, want batches of 1 and 2 tasks", batches)
	}

	dir, ok := batches[0].Tasks[0].(*tasks.Directory)
	if !ok {
		t.Fatalf("first task is %T, want *tasks.Directory", batches[0].Tasks[0])
	}
	if want := filepath.Join(home, ".local", "share", "myapp"); dir.Path != want {
		t.Errorf("directory path = %q, want %q", dir.Path, want)
	}
	if dir.SupportsPlatform(platform.Windows) || !dir.SupportsPlatform(platform.Mac) {
		t.Error("directory platform restriction not applied")
	}

	file, ok := batches[1].Tasks[0].(*tasks.File)
	if !ok {
		t.Fatalf("second task is %T, want *tasks.File", batches[1].Tasks[0])
	}
	if file.Format != fileutil.FormatJSON || file.Perm != 0o600 {
		t.Errorf("file task = format %q perm %o, want json 600", file.Format, file.Perm)
	}

	link, ok := batches[1].Tasks[1].(*tasks.Symlink)
	if !ok {
		t.Fatalf("third task is %T, want *tasks.Symlink", batches[1].Tasks[1])
	}
	if want := filepath.Join(home, ".local", "share", "myapp"); link.Target != want {
		t.Errorf("symlink target = %q, want expanded %q", link.Target, want)
	}
}

func TestBuild_GitRepo(t *testing.T) {
	home := setHome(t)

	cfg := &config.Config{Version: 1, Batches: []config.Batch{{Name: "b", Tasks: []config.Task{
		{Name: "dotfiles", Type: config.TypeGit, Path: "~/dotfiles", URL: "https://example.com/dotfiles.git", Branch: "main", Depth: 1},
	}}}}

	batches, err := Build(cfg)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	g, ok := batches[0].Tasks[0].(*tasks.GitRepo)
	if !ok {
		t.Fatalf("task is %T, want *tasks.GitRepo", batches[0].Tasks[0])
	}
	if g.Path != filepath.Join(home, "dotfiles") || g.Branch != "main" || g.Depth != 1 {
		t.Errorf("git task = %+v", g)
	}
}

func TestBuild_HomeDirectory(t *testing.T) {
	home := setHome(t)

	cfg := &config.Config{Version: 1, Batches: []config.Batch{{Name: "b", Tasks: []config.Task{
		{Name: "cache", Type: config.TypeHomeDirectory, Path: ".cache/envseed"},
	}}}}

	batches, err := Build(cfg)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	h, ok := batches[0].Tasks[0].(*tasks.HomeDirectory)
	if !ok {
		t.Fatalf("task is %T, want *tasks.HomeDirectory", batches[0].Tasks[0])
	}
	if want := filepath.Join(home, ".cache", "envseed"); h.Path() != want {
		t.Errorf("Path() = %q, want %q", h.Path(), want)
	}
	if h.SupportsPlatform(platform.Windows) || !h.SupportsPlatform(platform.Mac) {
		t.Error("home directories apply to Mac and Unix only")
	}
}

func TestBuild_WithBackups(t *testing.T) {
	setHome(t)
	mgr := backup.NewManager(backup.WithBackupDir(t.TempDir()))

	cfg := &config.Config{Version: 1, Batches: []config.Batch{{Name: "b", Tasks: []config.Task{
		{Name: "rc", Type: config.TypeFile, Path: "~/.rc", Content: "x"},
	}}}}

	batches, err := Build(cfg, WithBackups(mgr))
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if f := batches[0].Tasks[0].(*tasks.File); f.Backups != mgr {
		t.Errorf("file task backups = %v, want manager", f.Backups)
	}

	batches, err = Build(cfg)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if f := batches[0].Tasks[0].(*tasks.File); f.Backups != nil {
		t.Error("backups set without WithBackups")
	}
}

func TestBuild_Errors(t *testing.T) {
	setHome(t)

	tests := []struct {
		name    string
		task    config.Task
		wantErr error
	}{
		{"unknown type", config.Task{Name: "x", Type: "package", Path: "/x"}, errors.ErrUnknownTaskType},
		{"bad platform", config.Task{Name: "x", Type: config.TypeDirectory, Path: "/x", Platforms: []string{"amiga"}}, config.ErrInvalidPlatform},
		{"bad format", config.Task{Name: "x", Type: config.TypeFile, Path: "/x", Format: "ini"}, fileutil.ErrUnsupportedFormat},
		{"missing target", config.Task{Name: "x", Type: config.TypeSymlink, Path: "/x"}, config.ErrMissingTarget},
		{"bad git url", config.Task{Name: "x", Type: config.TypeGit, Path: "/x", URL: "-oProxyCommand=id"}, git.ErrInvalidURL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{Version: 1, Batches: []config.Batch{{Name: "b", Tasks: []config.Task{tt.task}}}}
			_, err := Build(cfg)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Build() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestBuild_UnknownTypeListsKnownTypes(t *testing.T) {
	cfg := &config.Config{Version: 1, Batches: []config.Batch{{Name: "b", Tasks: []config.Task{
		{Name: "x", Type: "package", Path: "/x"},
	}}}}

	_, err := Build(cfg)
	if err == nil {
		t.Fatal("Build() expected an error")
	}
	for _, typ := range []string{"directory", "file", "git", "home_directory", "symlink"} {
		if !strings.Contains(err.Error(), typ) {
			t.Errorf("error %q does not mention %q", err.Error(), typ)
		}
	}
}

type noopTask struct {
	task.Base
	name string
}

func (n noopTask) Name() string             { return n.name }
func (n noopTask) AlreadyProvisioned() bool { return false }
func (n noopTask) Execute(context.Context) (result.Result, error) {
	return result.Successful(), nil
}

func TestRegister(t *testing.T) {
	Register("noop", func(s Spec) (task.Task, error) {
		return noopTask{name: s.Name}, nil
	})
	t.Cleanup(func() {
		registryMu.Lock()
		delete(registry, "noop")
		registryMu.Unlock()
	})

	found := false
	for _, typ := range Types() {
		if typ == "noop" {
			found = true
		}
	}
	if !found {
		t.Fatalf("Types() = %v, want noop registered", Types())
	}

	batches, err := Build(&config.Config{Batches: []config.Batch{{
		Name:  "custom",
		Tasks: []config.Task{{Name: "n", Type: "noop", Path: "/unused"}},
	}}})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if _, ok := batches[0].Tasks[0].(noopTask); !ok {
		t.Errorf("task is %T, want noopTask", batches[0].Tasks[0])
	}
}

func TestBuild_EndToEnd(t *testing.T) {
	home := setHome(t)

	cfg := &config.Config{
		Version: 1,
		Batches: []config.Batch{
			{Name: "dirs", Tasks: []config.Task{
				{Name: "data", Type: config.TypeDirectory, Path: "~/data"},
			}},
			{Name: "files", Tasks: []config.Task{
				{Name: "rc", Type: config.TypeFile, Path: "~/data/rc.yaml", Format: "yaml", Content: map[string]any{"editor": "vi"}},
			}},
		},
	}

	batches, err := Build(cfg)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	p := provisioner.New(provisioner.WithPlatform(platform.Unix))
	results, err := p.Provision(context.Background(), batches)
	if err != nil {
		t.Fatalf("Provision() error = %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("len(results) = %d, want 2", len(results))
	}
	for _, r := range results {
		if r.Status() != result.StatusSuccessful {
			t.Errorf("%s: status %v, want successful (%s)", r.Task(), r.Status(), r.Reason())
		}
	}

	data, err := os.ReadFile(filepath.Join(home, "data", "rc.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "editor: vi\n" {
		t.Errorf("rc.yaml = %q, want %q", data, "editor: vi\n")
	}
}

func TestSelect(t *testing.T) {
	batches := []provisioner.Batch{
		{Name: "one", Tasks: []task.Task{noopTask{name: "a"}, noopTask{name: "b"}}},
		{Name: "two", Tasks: []task.Task{noopTask{name: "c"}}},
		{Name: "three", Tasks: []task.Task{noopTask{name: "d"}, noopTask{name: "e"}}},
	}

	entries := Entries(batches)
	if len(entries) != 5 || entries[2].String() != "two/c" {
		t.Fatalf("Entries() = %v", entries)
	}

	// Selection order must not change run order
	got := Select(batches, []Entry{{"three", "e"}, {"one", "b"}, {"one", "a"}})
	if len(got) != 2 {
		t.Fatalf("Select() kept %d batches, want 2", len(got))
	}
	if got[0].Name != "one" || got[1].Name != "three" {
		t.Errorf("batch order = %s,%s, want one,three", got[0].Name, got[1].Name)
	}
	if got[0].Tasks[0].Name() != "a" || got[0].Tasks[1].Name() != "b" {
		t.Error("task order within batch not preserved")
	}
	if len(got[1].Tasks) != 1 || got[1].Tasks[0].Name() != "e" {
		t.Errorf("third batch = %v, want only e", got[1].Tasks)
	}

	if got := Select(batches, nil); len(got) != 0 {
		t.Errorf("Select(nil) = %v, want no batches", got)
	}
}
