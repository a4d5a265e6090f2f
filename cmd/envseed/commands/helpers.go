package commands

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/envseed/cmd"
	"github.com/thoreinstein/envseed/internal/backup"
	"github.com/thoreinstein/envseed/internal/config"
	"github.com/thoreinstein/envseed/internal/errors"
	"github.com/thoreinstein/envseed/internal/logging"
	"github.com/thoreinstein/envseed/internal/paths"
	"github.com/thoreinstein/envseed/internal/plan"
	"github.com/thoreinstein/envseed/internal/platform"
	"github.com/thoreinstein/envseed/internal/provisioner"
)

// loadedPlan is a validated plan ready to run.
type loadedPlan struct {
	cfg     *config.Config
	batches []provisioner.Batch
}

// loadPlan reads the plan named by --config, or the default one, and
// builds its batches. Failures are config errors with exit code 1.
func loadPlan(c *cobra.Command) (*loadedPlan, error) {
	logger := logging.FromContext(c.Context())

	config.Init()
	cfg, err := config.Load(configPath)
	if err != nil {
		logValidationErrors(logger, err)
		return nil, errors.NewConfigError(err)
	}
	logger.Debug("plan loaded", "source", cfg.Source, "batches", len(cfg.Batches))

	var opts []plan.Option
	if cfg.Backup || runBackup {
		mgr, err := newBackupManager(cfg)
		if err != nil {
			return nil, errors.NewConfigError(err)
		}
		opts = append(opts, plan.WithBackups(mgr))
	}

	batches, err := plan.Build(cfg, opts...)
	if err != nil {
		return nil, errors.NewConfigError(err)
	}

	return &loadedPlan{cfg: cfg, batches: batches}, nil
}

func logValidationErrors(logger *slog.Logger, err error) {
	var verr *config.ValidationError
	if !errors.As(err, &verr) {
		return
	}
	for _, e := range verr.Errs {
		logger.Error("invalid plan", "source", verr.Source, "error", e)
	}
}

// hostPlatform returns the detected platform and the host string it was
// detected from.
func hostPlatform() (platform.Platform, string) {
	host := platform.HostName()
	return platform.Detect(host), host
}

// newBackupManager returns the backup manager for the plan's backup
// settings.
func newBackupManager(cfg *config.Config) (*backup.Manager, error) {
	dir := backup.Dir()
	if cfg.BackupDir != "" {
		expanded, err := paths.ExpandHome(cfg.BackupDir)
		if err != nil {
			return nil, errors.Wrap(err, "backup_dir")
		}
		dir = expanded
	}
	return backup.NewManager(
		backup.WithBackupDir(dir),
		backup.WithRetentionCount(cfg.BackupRetention),
		backup.WithVersion(cmd.Info().Version),
	), nil
}
