package result

// ChangeKind identifies the kind of effect a task produced.
type ChangeKind string

const (
	// KindDirectoryCreated records a created directory.
	KindDirectoryCreated ChangeKind = "directory_created"

	// KindFileWritten records a written file.
	KindFileWritten ChangeKind = "file_written"

	// KindSymlinkCreated records a created symbolic link.
	KindSymlinkCreated ChangeKind = "symlink_created"

	// KindFileBackedUp records a file copied aside before being replaced.
	KindFileBackedUp ChangeKind = "file_backed_up"

	// KindRepositoryCloned records a cloned git repository.
	KindRepositoryCloned ChangeKind = "repository_cloned"
)

// Change records one concrete effect of a provisioning action.
type Change struct {
	// Kind is the type of effect.
	Kind ChangeKind `json:"kind"`

	// Path is the filesystem location that was changed.
	Path string `json:"path"`

	// Detail carries kind-specific context, such as a symlink target.
	Detail string `json:"detail,omitempty"`
}

// DirectoryCreated records that a directory was created at path.
func DirectoryCreated(path string) Change {
	return Change{Kind: KindDirectoryCreated, Path: path}
}

// FileWritten records that a file was written at path.
func FileWritten(path string) Change {
	return Change{Kind: KindFileWritten, Path: path}
}

// SymlinkCreated records that a symlink at path now points to target.
func SymlinkCreated(path, target string) Change {
	return Change{Kind: KindSymlinkCreated, Path: path, Detail: target}
}

// FileBackedUp records that path was backed up under the given backup ID.
func FileBackedUp(path, id string) Change {
	return Change{Kind: KindFileBackedUp, Path: path, Detail: id}
}

// RepositoryCloned records that url was cloned into path.
func RepositoryCloned(path, url string) Change {
	return Change{Kind: KindRepositoryCloned, Path: path, Detail: url}
}

// String formats the change for display.
func (c Change) String() string {
	if c.Detail == "" {
		return string(c.Kind) + " " + c.Path
	}
	return string(c.Kind) + " " + c.Path + " -> " + c.Detail
}
