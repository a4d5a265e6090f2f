package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/thoreinstein/envseed/internal/backup"
	"github.com/thoreinstein/envseed/internal/config"
	"github.com/thoreinstein/envseed/internal/errors"
	"github.com/thoreinstein/envseed/internal/logging"
)

var backupsListJSON bool

func init() {
	backupsListCmd.Flags().BoolVar(&backupsListJSON, "json", false,
		"output as JSON")
	backupsCmd.AddCommand(backupsListCmd, backupsRestoreCmd)
	rootCmd.AddCommand(backupsCmd)
}

var backupsCmd = &cobra.Command{
	Use:   "backups",
	Short: "List and restore files backed up before a run replaced them",
	Long: `File tasks copy an existing file aside before replacing it when the plan
sets "backup: true" or run is given --backup. Backups are grouped by task
name and stored under backup_dir, by default the envseed state directory.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

var backupsListCmd = &cobra.Command{
	Use:   "list [task]",
	Short: "List backups, newest first",
	Example: `  # List every backup
  envseed backups list

  # List the backups of one task
  envseed backups list gitconfig --json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBackupsList,
}

var backupsRestoreCmd = &cobra.Command{
	Use:   "restore <task> [backup-id]",
	Short: "Restore the files of a backup",
	Long: `Copy the files of a backup back to their original locations with their
original permissions. Without a backup ID the newest backup of the task is
restored. Every file is verified against its checksum first.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runBackupsRestore,
}

// backupsEntry is the JSON form of one task's backups.
type backupsEntry struct {
	Task    string       `json:"task"`
	Backups []backupInfo `json:"backups"`
}

type backupInfo struct {
	ID             string    `json:"id"`
	CreatedAt      time.Time `json:"created_at"`
	Files          []string  `json:"files"`
	EnvseedVersion string    `json:"envseed_version"`
}

// backupManagerFromPlan builds the backup manager from the plan's backup
// settings. A plan that fails validation still provides them.
func backupManagerFromPlan() (*backup.Manager, error) {
	config.Init()
	cfg, err := config.Load(configPath)
	if cfg == nil {
		return nil, errors.NewConfigError(err)
	}
	mgr, err := newBackupManager(cfg)
	if err != nil {
		return nil, errors.NewConfigError(err)
	}
	return mgr, nil
}

func runBackupsList(cmd *cobra.Command, args []string) error {
	mgr, err := backupManagerFromPlan()
	if err != nil {
		return err
	}

	names := args
	if len(names) == 0 {
		if names, err = mgr.Tasks(); err != nil {
			return errors.NewSystemError(err, "Check the permissions of the backup directory")
		}
	}

	entries := make([]backupsEntry, 0, len(names))
	for _, name := range names {
		manifests, err := mgr.List(name)
		if err != nil && !errors.Is(err, backup.ErrNoBackupsFound) {
			return errors.NewSystemError(errors.Wrapf(err, "listing backups for %s", name), "")
		}
		entry := backupsEntry{Task: name, Backups: make([]backupInfo, 0, len(manifests))}
		for _, m := range manifests {
			info := backupInfo{ID: m.ID, CreatedAt: m.CreatedAt, EnvseedVersion: m.EnvseedVersion}
			for _, f := range m.Files {
				info.Files = append(info.Files, f.OriginalPath)
			}
			entry.Backups = append(entry.Backups, info)
		}
		entries = append(entries, entry)
	}

	if backupsListJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(entries); err != nil {
			return errors.Wrap(err, "encoding JSON")
		}
		return nil
	}
	return writeBackupsTable(cmd.OutOrStdout(), entries)
}

func writeBackupsTable(w io.Writer, entries []backupsEntry) error {
	bold := color.New(color.Bold).SprintFunc()
	green := color.New(color.FgGreen).SprintFunc()

	found := false
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", bold("TASK"), bold("ID"), bold("CREATED"), bold("FILES"))
	for _, e := range entries {
		for _, b := range e.Backups {
			found = true
			fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n",
				e.Task, green(b.ID), b.CreatedAt.Local().Format("2006-01-02 15:04:05"), len(b.Files))
		}
	}

	if !found {
		_, err := fmt.Fprintln(w, "No backups available")
		return err
	}
	return tw.Flush()
}

func runBackupsRestore(cmd *cobra.Command, args []string) error {
	logger := logging.FromContext(cmd.Context())

	mgr, err := backupManagerFromPlan()
	if err != nil {
		return err
	}

	name, id := args[0], ""
	if len(args) > 1 {
		id = args[1]
	}

	manifest, err := mgr.Restore(name, id)
	if err != nil {
		if errors.Is(err, backup.ErrNoBackupsFound) {
			return errors.NewUserError(err, "Run: envseed backups list")
		}
		return errors.NewSystemError(err, "")
	}

	for _, f := range manifest.Files {
		logger.Debug("restored file", "path", f.OriginalPath, "backup", manifest.ID)
		fmt.Fprintf(cmd.OutOrStdout(), "Restored %s\n", f.OriginalPath)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Restored backup %s of %s\n", manifest.ID, manifest.Task)
	return nil
}
