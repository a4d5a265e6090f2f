package backup

import (
	"io/fs"
	"time"

	"github.com/thoreinstein/envseed/internal/errors"
)

// ManifestVersion is the manifest format version.
const ManifestVersion = 1

// DefaultRetentionCount is the number of backups kept per task.
const DefaultRetentionCount = 5

// manifestName is the manifest file stored in every backup directory.
const manifestName = "manifest.json"

// Sentinel errors for backup operations.
var (
	// ErrNoBackupsFound indicates no backups exist for the task.
	ErrNoBackupsFound = errors.New("no backups found")

	// ErrBackupCorrupted indicates a stored file no longer matches its
	// recorded SHA256 hash.
	ErrBackupCorrupted = errors.New("backup corrupted")

	// ErrNothingToBackUp indicates none of the given paths exist.
	ErrNothingToBackUp = errors.New("no files to back up")
)

// Manifest describes one backup. It is stored as manifest.json in the
// backup directory.
type Manifest struct {
	Version   int       `json:"version"`
	CreatedAt time.Time `json:"created_at"`

	// Task is the name of the task that replaced the files.
	Task  string `json:"task"`
	Files []File `json:"files"`

	// EnvseedVersion is the version of envseed that created the backup.
	EnvseedVersion string `json:"envseed_version"`

	// ID is the backup directory name. It is populated when loading from
	// disk and not stored in JSON.
	ID string `json:"-"`
}

// File is a single backed up file.
type File struct {
	// OriginalPath is the absolute path the file was copied from.
	OriginalPath string `json:"original_path"`

	// RelPath is the location of the copy within the backup directory.
	RelPath string `json:"rel_path"`

	// SHA256Hash is the hex-encoded hash of the contents.
	SHA256Hash string `json:"sha256_hash"`

	Mode fs.FileMode `json:"mode"`
}
