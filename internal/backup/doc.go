// Package backup keeps copies of files that envseed is about to replace.
//
// When backups are enabled, a file task copies the existing file here
// before writing new content. Each backup is a timestamped directory
// grouped under the task name:
//
//	$XDG_STATE_HOME/envseed/backups/
//	└── {task}/
//	    └── {timestamp}/
//	        ├── manifest.json
//	        └── {copied files...}
//
// # Creating Backups
//
//	mgr := backup.NewManager()
//	manifest, err := mgr.Backup("gitconfig", []string{"/home/me/.gitconfig"})
//
// The copy keeps the original permissions and the [Manifest] records a
// SHA256 checksum for each file. Only the newest [DefaultRetentionCount]
// backups of a task are kept unless [WithRetentionCount] says otherwise.
//
// # Restoring Backups
//
//	manifest, err := mgr.Restore("gitconfig", "") // newest backup
//
// Every file is verified against its checksum before any original is
// touched. A mismatch yields [ErrBackupCorrupted].
package backup
