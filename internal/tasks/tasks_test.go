package tasks

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/thoreinstein/envseed/internal/backup"
	"github.com/thoreinstein/envseed/internal/errors"
	"github.com/thoreinstein/envseed/internal/platform"
	"github.com/thoreinstein/envseed/internal/result"
	"github.com/thoreinstein/envseed/internal/task"
	"github.com/thoreinstein/envseed/pkg/fileutil"
)

func provision(t *testing.T, tk task.Task) result.Result {
	t.Helper()
	res, err := task.Provision(context.Background(), tk, platform.Unix)
	if err != nil {
		t.Fatalf("Provision(%s) unexpected error: %v", tk.Name(), err)
	}
	return res
}

func changeKinds(r result.Result) []result.ChangeKind {
	var kinds []result.ChangeKind
	for _, c := range r.Changes() {
		kinds = append(kinds, c.Kind)
	}
	return kinds
}

func TestDirectory(t *testing.T) {
	tests := []struct {
		name       string
		setup      func(t *testing.T, root string) string
		platforms  []platform.Platform
		wantStatus result.Status
		wantReason string
	}{
		{
			name: "creates nested directory",
			setup: func(t *testing.T, root string) string {
				return filepath.Join(root, "a", "b", "c")
			},
			wantStatus: result.StatusSuccessful,
		},
		{
			name: "existing directory is skipped",
			setup: func(t *testing.T, root string) string {
				return root
			},
			wantStatus: result.StatusSkipped,
			wantReason: "Resources of data are already provisioned",
		},
		{
			name: "file in the location",
			setup: func(t *testing.T, root string) string {
				p := filepath.Join(root, "occupied")
				if err := os.WriteFile(p, []byte("x"), 0o644); err != nil {
					t.Fatal(err)
				}
				return p
			},
			wantStatus: result.StatusSkipped,
			wantReason: ReasonOccupied,
		},
		{
			name: "parent is a file",
			setup: func(t *testing.T, root string) string {
				p := filepath.Join(root, "blocker")
				if err := os.WriteFile(p, []byte("x"), 0o644); err != nil {
					t.Fatal(err)
				}
				return filepath.Join(p, "child")
			},
			wantStatus: result.StatusFailed,
			wantReason: "Creating directory failed",
		},
		{
			name: "unsupported platform",
			setup: func(t *testing.T, root string) string {
				return filepath.Join(root, "never")
			},
			platforms:  []platform.Platform{platform.Windows},
			wantStatus: result.StatusSkipped,
			wantReason: task.ReasonUnsupportedPlatform,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := tt.setup(t, t.TempDir())
			d := NewDirectory("data", path, tt.platforms...)

			res := provision(t, d)
			if res.Status() != tt.wantStatus {
				t.Fatalf("Status() = %v, want %v (reason %q)", res.Status(), tt.wantStatus, res.Reason())
			}
			if tt.wantReason != "" && res.Reason() != tt.wantReason {
				t.Errorf("Reason() = %q, want %q", res.Reason(), tt.wantReason)
			}
			if res.Task() != "data" {
				t.Errorf("Task() = %q, want data", res.Task())
			}
			if tt.wantStatus == result.StatusSuccessful {
				if !d.AlreadyProvisioned() {
					t.Error("directory should exist after provisioning")
				}
				changes := res.Changes()
				if len(changes) != 1 || changes[0] != result.DirectoryCreated(path) {
					t.Errorf("Changes() = %v, want [%v]", changes, result.DirectoryCreated(path))
				}
			}
		})
	}
}

func TestDirectory_Name(t *testing.T) {
	d := &Directory{Path: "/srv/cache"}
	if got := d.Name(); got != "directory /srv/cache" {
		t.Errorf("Name() = %q, want derived name", got)
	}
}

func TestHomeDirectory(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	if runtime.GOOS == "windows" {
		t.Setenv("USERPROFILE", home)
	}

	h, err := NewHomeDirectory("app-data", filepath.Join(".local", "share", "myapp"))
	if err != nil {
		t.Fatalf("NewHomeDirectory() error = %v", err)
	}
	if want := filepath.Join(home, ".local", "share", "myapp"); h.Path() != want {
		t.Errorf("Path() = %q, want %q", h.Path(), want)
	}

	for _, p := range []platform.Platform{platform.Mac, platform.Unix} {
		if !h.SupportsPlatform(p) {
			t.Errorf("SupportsPlatform(%v) = false, want true", p)
		}
	}
	if h.SupportsPlatform(platform.Windows) {
		t.Error("SupportsPlatform(Windows) = true, want false")
	}

	res := provision(t, h)
	if res.Status() != result.StatusSuccessful {
		t.Fatalf("Status() = %v, want successful (%s)", res.Status(), res.Reason())
	}

	res = provision(t, h)
	if res.Status() != result.StatusSkipped {
		t.Errorf("second run Status() = %v, want skipped", res.Status())
	}
}

func TestFile(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "config", "myapp", "settings.toml")
	f := NewFile("defaults", path, fileutil.FormatTOML, map[string]any{"theme": "dark"})

	res := provision(t, f)
	if res.Status() != result.StatusSuccessful {
		t.Fatalf("Status() = %v, want successful (%s)", res.Status(), res.Reason())
	}

	want := []result.ChangeKind{
		result.KindDirectoryCreated,
		result.KindDirectoryCreated,
		result.KindFileWritten,
	}
	got := changeKinds(res)
	if len(got) != len(want) {
		t.Fatalf("change kinds = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("change[%d] = %v, want %v", i, got[i], want[i])
		}
	}
	if c := res.Changes()[0]; c.Path != filepath.Join(root, "config") {
		t.Errorf("first created directory = %q, want outermost parent", c.Path)
	}

	if !f.AlreadyProvisioned() {
		t.Error("AlreadyProvisioned() = false after write")
	}
	if res := provision(t, f); res.Status() != result.StatusSkipped {
		t.Errorf("second run Status() = %v, want skipped", res.Status())
	}

	// Changing the content makes the task run again
	f.Content = map[string]any{"theme": "light"}
	if f.AlreadyProvisioned() {
		t.Error("AlreadyProvisioned() = true with changed content")
	}
	res = provision(t, f)
	if res.Status() != result.StatusSuccessful {
		t.Fatalf("rewrite Status() = %v, want successful", res.Status())
	}
	if kinds := changeKinds(res); len(kinds) != 1 || kinds[0] != result.KindFileWritten {
		t.Errorf("rewrite change kinds = %v, want only file_written", kinds)
	}
}

func TestFile_RawWithPerm(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission bits are not meaningful on windows")
	}
	path := filepath.Join(t.TempDir(), "env.sh")
	f := NewFile("", path, fileutil.FormatRaw, "export EDITOR=vi\n")
	f.Perm = 0o600

	if res := provision(t, f); res.Status() != result.StatusSuccessful {
		t.Fatalf("Status() = %v, want successful (%s)", res.Status(), res.Reason())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "export EDITOR=vi\n" {
		t.Errorf("content = %q", data)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("permissions = %o, want 600", info.Mode().Perm())
	}
}

func TestFile_Failures(t *testing.T) {
	root := t.TempDir()

	tests := []struct {
		name   string
		file   *File
		reason string
	}{
		{
			name:   "content cannot be encoded",
			file:   NewFile("bad", filepath.Join(root, "bad.json"), fileutil.FormatJSON, make(chan int)),
			reason: "Encoding content failed",
		},
		{
			name:   "path is a directory",
			file:   NewFile("dir", root, fileutil.FormatRaw, "x"),
			reason: "Writing file failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := provision(t, tt.file)
			if res.Status() != result.StatusFailed {
				t.Fatalf("Status() = %v, want failed", res.Status())
			}
			if res.Reason() != tt.reason {
				t.Errorf("Reason() = %q, want %q", res.Reason(), tt.reason)
			}
			if res.Cause() == nil {
				t.Error("Cause() = nil, want underlying error")
			}
		})
	}
}

type failingBackups struct{}

func (failingBackups) Backup(string, []string) (*backup.Manifest, error) {
	return nil, errors.New("disk full")
}

func TestFile_BacksUpReplacedFile(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "rc")
	if err := os.WriteFile(path, []byte("old\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	mgr := backup.NewManager(backup.WithBackupDir(filepath.Join(root, "backups")))
	f := NewFile("rc", path, fileutil.FormatRaw, "new")
	f.Backups = mgr

	res := provision(t, f)
	if res.Status() != result.StatusSuccessful {
		t.Fatalf("status = %s, want successful (%s)", res.Status(), res.Reason())
	}
	kinds := changeKinds(res)
	if len(kinds) != 2 || kinds[0] != result.KindFileBackedUp || kinds[1] != result.KindFileWritten {
		t.Errorf("changes = %v, want [file_backed_up file_written]", kinds)
	}

	list, err := mgr.List("rc")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if got := res.Changes()[0].Detail; got != list[0].ID {
		t.Errorf("backup ID = %q, want %q", got, list[0].ID)
	}

	if _, err := mgr.Restore("rc", ""); err != nil {
		t.Fatalf("Restore() error = %v", err)
	}
	data, _ := os.ReadFile(path)
	if string(data) != "old\n" {
		t.Errorf("restored content = %q, want %q", data, "old\n")
	}
}

func TestFile_NoBackupForNewFile(t *testing.T) {
	root := t.TempDir()
	f := NewFile("new", filepath.Join(root, "new"), fileutil.FormatRaw, "x")
	f.Backups = failingBackups{}

	res := provision(t, f)
	if res.Status() != result.StatusSuccessful {
		t.Fatalf("status = %s, want successful", res.Status())
	}
}

func TestFile_BackupFailureFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rc")
	if err := os.WriteFile(path, []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}
	f := NewFile("rc", path, fileutil.FormatRaw, "new")
	f.Backups = failingBackups{}

	res := provision(t, f)
	if res.Status() != result.StatusFailed {
		t.Fatalf("status = %s, want failed", res.Status())
	}
	if res.Reason() != "Backing up existing file failed" {
		t.Errorf("reason = %q", res.Reason())
	}
	data, _ := os.ReadFile(path)
	if string(data) != "old" {
		t.Errorf("file was modified: %q", data)
	}
}

func TestFailure_PartialWhenDirectoriesCreated(t *testing.T) {
	root := t.TempDir()
	created := filepath.Join(root, "created")
	if err := os.Mkdir(created, 0o755); err != nil {
		t.Fatal(err)
	}
	boom := errors.New("disk full")

	res := failure("Writing file failed", boom, []string{created, filepath.Join(created, "never")})
	if res.Status() != result.StatusPartial {
		t.Fatalf("Status() = %v, want partial", res.Status())
	}
	if changes := res.Changes(); len(changes) != 1 || changes[0].Path != created {
		t.Errorf("Changes() = %v, want only %s", changes, created)
	}
	if res.Reason() != "Writing file failed" || !errors.Is(res.Cause(), boom) {
		t.Errorf("partial result lost its reason: reason %q, cause %v", res.Reason(), res.Cause())
	}

	res = failure("Writing file failed", boom, nil)
	if res.Status() != result.StatusFailed || !errors.Is(res.Cause(), boom) {
		t.Errorf("failure() = %v, want failed with cause", res)
	}
}

func TestFile_LargeContentIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "big.txt")
	content := strings.Repeat("x", fileutil.MaxFileSize+10)
	mgr := backup.NewManager(backup.WithBackupDir(t.TempDir()))

	f := NewFile("big", path, fileutil.FormatRaw, content)
	f.Backups = mgr

	if res := provision(t, f); res.Status() != result.StatusSuccessful {
		t.Fatalf("first run = %v, want successful", res)
	}
	if res := provision(t, f); res.Status() != result.StatusSkipped {
		t.Fatalf("second run = %v, want skipped", res)
	}
	if backups, err := mgr.List("big"); err == nil && len(backups) > 0 {
		t.Errorf("unchanged file was backed up %d times", len(backups))
	}

	// One byte changed at the end is still a difference
	if err := os.WriteFile(path, []byte(content[:len(content)-1]+"y"), 0o644); err != nil {
		t.Fatal(err)
	}
	if f.AlreadyProvisioned() {
		t.Error("AlreadyProvisioned() = true for a file differing in its last byte")
	}
}

func TestExecute_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	root := t.TempDir()
	for _, tk := range []task.Task{
		NewDirectory("dir", filepath.Join(root, "d")),
		NewFile("file", filepath.Join(root, "f"), fileutil.FormatRaw, "x"),
		NewSymlink("link", filepath.Join(root, "l"), root),
	} {
		res, err := tk.Execute(ctx)
		if err != nil {
			t.Fatalf("%s: Execute() error = %v", tk.Name(), err)
		}
		if res.Status() != result.StatusFailed || !errors.Is(res.Cause(), context.Canceled) {
			t.Errorf("%s: Execute() = %v, want failed with context.Canceled", tk.Name(), res)
		}
	}
}

func TestSymlink(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks require elevated privileges on windows")
	}

	tests := []struct {
		name       string
		setup      func(t *testing.T, link, target string)
		wantStatus result.Status
	}{
		{
			name:       "creates link and parents",
			setup:      func(t *testing.T, link, target string) {},
			wantStatus: result.StatusSuccessful,
		},
		{
			name: "existing correct link is skipped",
			setup: func(t *testing.T, link, target string) {
				mustSymlink(t, target, link)
			},
			wantStatus: result.StatusSkipped,
		},
		{
			name: "link pointing elsewhere is replaced",
			setup: func(t *testing.T, link, target string) {
				mustSymlink(t, filepath.Dir(target), link)
			},
			wantStatus: result.StatusSuccessful,
		},
		{
			name: "regular file aborts",
			setup: func(t *testing.T, link, target string) {
				if err := os.MkdirAll(filepath.Dir(link), 0o755); err != nil {
					t.Fatal(err)
				}
				if err := os.WriteFile(link, []byte("precious"), 0o644); err != nil {
					t.Fatal(err)
				}
			},
			wantStatus: result.StatusAborted,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			target := filepath.Join(root, "opt", "myapp")
			if err := os.MkdirAll(target, 0o755); err != nil {
				t.Fatal(err)
			}
			link := filepath.Join(root, "bin", "myapp")
			tt.setup(t, link, target)

			s := NewSymlink("link", link, target)
			res := provision(t, s)
			if res.Status() != tt.wantStatus {
				t.Fatalf("Status() = %v, want %v (reason %q)", res.Status(), tt.wantStatus, res.Reason())
			}

			switch tt.wantStatus {
			case result.StatusSuccessful:
				got, err := os.Readlink(link)
				if err != nil || got != target {
					t.Errorf("Readlink() = %q, %v, want %q", got, err, target)
				}
				changes := res.Changes()
				last := changes[len(changes)-1]
				if last != result.SymlinkCreated(link, target) {
					t.Errorf("last change = %v, want symlink change", last)
				}
			case result.StatusAborted:
				data, err := os.ReadFile(link)
				if err != nil || string(data) != "precious" {
					t.Error("existing file was modified")
				}
			}
		})
	}
}

func mustSymlink(t *testing.T, target, link string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(link), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(target, link); err != nil {
		t.Fatal(err)
	}
}
