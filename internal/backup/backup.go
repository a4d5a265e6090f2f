package backup

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/thoreinstein/envseed/internal/errors"
	"github.com/thoreinstein/envseed/internal/paths"
	"github.com/thoreinstein/envseed/pkg/fileutil"
)

// idLayout formats backup IDs, e.g. 20260123T100712.
const idLayout = "20060102T150405"

// Manager creates, lists, restores and prunes backups of files that
// tasks are about to replace. Backups are grouped per task name.
type Manager struct {
	rootDir        string
	retentionCount int
	version        string
	now            func() time.Time
}

// Option configures a Manager.
type Option func(*Manager)

// WithBackupDir sets the root backup directory.
func WithBackupDir(dir string) Option {
	return func(m *Manager) {
		m.rootDir = dir
	}
}

// WithRetentionCount sets the number of backups kept per task.
// Non-positive values are ignored.
func WithRetentionCount(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.retentionCount = n
		}
	}
}

// WithVersion records the envseed version in new manifests.
func WithVersion(v string) Option {
	return func(m *Manager) {
		m.version = v
	}
}

// NewManager creates a Manager storing backups under Dir unless
// WithBackupDir says otherwise.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		rootDir:        Dir(),
		retentionCount: DefaultRetentionCount,
		version:        "dev",
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Backup copies the existing regular files among paths into a new backup
// for task and prunes the task's backups beyond the retention count.
// Missing paths are ignored; if none exist ErrNothingToBackUp is returned.
func (m *Manager) Backup(task string, files []string) (*Manifest, error) {
	if task == "" {
		return nil, errors.New("task name is required")
	}

	var existing []string
	for _, p := range files {
		info, err := os.Stat(p)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, errors.Wrapf(err, "stat %s", p)
		}
		if !info.Mode().IsRegular() {
			return nil, errors.Newf("%s is not a regular file", p)
		}
		existing = append(existing, p)
	}
	if len(existing) == 0 {
		return nil, ErrNothingToBackUp
	}

	id, dir, err := m.createBackupDir(task)
	if err != nil {
		return nil, err
	}

	manifest := &Manifest{
		Version:        ManifestVersion,
		CreatedAt:      m.now().UTC(),
		Task:           task,
		EnvseedVersion: m.version,
		ID:             id,
	}
	for _, p := range existing {
		bf, err := backupFile(p, dir)
		if err != nil {
			os.RemoveAll(dir)
			return nil, errors.Wrapf(err, "backing up %s", p)
		}
		manifest.Files = append(manifest.Files, *bf)
	}

	if err := fileutil.AtomicWriteJSON(filepath.Join(dir, manifestName), manifest); err != nil {
		os.RemoveAll(dir)
		return nil, errors.Wrap(err, "writing manifest")
	}

	if err := m.Prune(task, m.retentionCount); err != nil {
		return manifest, errors.Wrap(err, "pruning old backups")
	}

	return manifest, nil
}

// createBackupDir creates a fresh directory for a backup of task. A
// numeric suffix separates backups created within the same second.
func (m *Manager) createBackupDir(task string) (id, dir string, err error) {
	taskDir := m.taskDir(task)
	if err := paths.EnsureDir(taskDir, paths.DefaultDirPerm); err != nil {
		return "", "", errors.Wrap(err, "creating backup directory")
	}

	base := m.now().Format(idLayout)
	for i := 0; ; i++ {
		id = base
		if i > 0 {
			id = fmt.Sprintf("%s-%d", base, i)
		}
		dir = filepath.Join(taskDir, id)
		err := os.Mkdir(dir, paths.DefaultDirPerm)
		if err == nil {
			return id, dir, nil
		}
		if !os.IsExist(err) {
			return "", "", errors.Wrap(err, "creating backup directory")
		}
	}
}

func backupFile(src, backupDir string) (*File, error) {
	rel := relPath(src)
	dst := filepath.Join(backupDir, rel)

	if err := os.MkdirAll(filepath.Dir(dst), paths.DefaultDirPerm); err != nil {
		return nil, errors.Wrap(err, "creating parent directory")
	}

	hash, mode, err := copyFile(src, dst)
	if err != nil {
		return nil, err
	}

	return &File{
		OriginalPath: src,
		RelPath:      rel,
		SHA256Hash:   hash,
		Mode:         mode,
	}, nil
}

// Restore verifies every file of a backup and copies it back to its
// original location with its original permissions. An empty id restores
// the newest backup. The restored manifest is returned.
func (m *Manager) Restore(task, id string) (*Manifest, error) {
	var manifest *Manifest
	if id == "" {
		all, err := m.List(task)
		if err != nil {
			return nil, err
		}
		manifest = &all[0]
	} else {
		var err error
		if manifest, err = m.Get(task, id); err != nil {
			return nil, err
		}
	}

	dir := filepath.Join(m.taskDir(task), manifest.ID)

	// Verify everything before touching any original
	for _, bf := range manifest.Files {
		hash, err := hashFile(filepath.Join(dir, bf.RelPath))
		if err != nil {
			return nil, errors.Wrapf(err, "reading backup file %s", bf.RelPath)
		}
		if hash != bf.SHA256Hash {
			return nil, errors.Wrapf(ErrBackupCorrupted, "file %s hash mismatch", bf.RelPath)
		}
	}

	for _, bf := range manifest.Files {
		data, err := os.ReadFile(filepath.Join(dir, bf.RelPath))
		if err != nil {
			return nil, errors.Wrapf(err, "reading backup file %s", bf.RelPath)
		}
		if err := os.MkdirAll(filepath.Dir(bf.OriginalPath), paths.DefaultDirPerm); err != nil {
			return nil, errors.Wrapf(err, "creating directory for %s", bf.OriginalPath)
		}
		if err := fileutil.AtomicWriteFile(bf.OriginalPath, data, bf.Mode.Perm()); err != nil {
			return nil, errors.Wrapf(err, "restoring %s", bf.OriginalPath)
		}
	}

	return manifest, nil
}

// List returns the backups of task, newest first.
func (m *Manager) List(task string) ([]Manifest, error) {
	if task == "" {
		return nil, errors.New("task name is required")
	}

	entries, err := os.ReadDir(m.taskDir(task))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(ErrNoBackupsFound, "task %s", task)
		}
		return nil, errors.Wrap(err, "reading backup directory")
	}

	manifests := make([]Manifest, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		manifest, err := m.Get(task, entry.Name())
		if err != nil {
			// Skip directories without a readable manifest
			continue
		}
		manifests = append(manifests, *manifest)
	}

	if len(manifests) == 0 {
		return nil, errors.Wrapf(ErrNoBackupsFound, "task %s", task)
	}

	slices.SortFunc(manifests, func(a, b Manifest) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return compareIDs(b.ID, a.ID)
	})

	return manifests, nil
}

// Tasks returns the names of the task directories holding backups.
func (m *Manager) Tasks() ([]string, error) {
	entries, err := os.ReadDir(m.rootDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "reading backup directory")
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	return names, nil
}

// Prune removes the backups of task beyond the newest keep.
func (m *Manager) Prune(task string, keep int) error {
	if keep < 0 {
		return errors.New("keep must be non-negative")
	}

	manifests, err := m.List(task)
	if err != nil {
		if errors.Is(err, ErrNoBackupsFound) {
			return nil
		}
		return err
	}

	for _, old := range manifests[min(keep, len(manifests)):] {
		if err := os.RemoveAll(filepath.Join(m.taskDir(task), old.ID)); err != nil {
			return errors.Wrapf(err, "removing backup %s", old.ID)
		}
	}
	return nil
}

// Get returns the manifest of a single backup.
func (m *Manager) Get(task, id string) (*Manifest, error) {
	if task == "" {
		return nil, errors.New("task name is required")
	}
	if id == "" {
		return nil, errors.New("backup ID is required")
	}

	data, err := os.ReadFile(filepath.Join(m.taskDir(task), id, manifestName))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(ErrNoBackupsFound, "backup %s not found", id)
		}
		return nil, errors.Wrap(err, "reading manifest")
	}

	var manifest Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, errors.Wrap(err, "parsing manifest")
	}

	manifest.ID = id
	return &manifest, nil
}

func (m *Manager) taskDir(task string) string {
	return filepath.Join(m.rootDir, taskDirName(task))
}

// compareIDs orders IDs of the same second by their numeric suffix.
func compareIDs(a, b string) int {
	if len(a) != len(b) {
		return len(a) - len(b)
	}
	if a < b {
		return -1
	}
	if a > b {
		return 1
	}
	return 0
}

func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", errors.Wrap(err, "opening file")
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", errors.Wrap(err, "reading file")
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// copyFile copies src to dst, returning the SHA256 hash of the contents
// and the source mode, which dst is given as well.
func copyFile(src, dst string) (hash string, mode fs.FileMode, err error) {
	srcFile, err := os.Open(src)
	if err != nil {
		return "", 0, errors.Wrap(err, "opening source file")
	}
	defer srcFile.Close()

	srcInfo, err := srcFile.Stat()
	if err != nil {
		return "", 0, errors.Wrap(err, "stat source file")
	}
	mode = srcInfo.Mode()

	dstFile, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return "", 0, errors.Wrap(err, "creating destination file")
	}

	h := sha256.New()
	if _, err := io.Copy(io.MultiWriter(dstFile, h), srcFile); err != nil {
		dstFile.Close()
		return "", 0, errors.Wrap(err, "copying file")
	}
	if err := dstFile.Close(); err != nil {
		return "", 0, errors.Wrap(err, "closing destination file")
	}
	if err := os.Chmod(dst, mode.Perm()); err != nil {
		return "", 0, errors.Wrap(err, "setting permissions")
	}

	return hex.EncodeToString(h.Sum(nil)), mode, nil
}
