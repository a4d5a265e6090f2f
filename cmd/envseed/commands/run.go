package commands

import (
	"github.com/spf13/cobra"

	"github.com/thoreinstein/envseed/internal/cli/prompt"
	"github.com/thoreinstein/envseed/internal/errors"
	"github.com/thoreinstein/envseed/internal/logging"
	"github.com/thoreinstein/envseed/internal/plan"
	"github.com/thoreinstein/envseed/internal/provisioner"
	"github.com/thoreinstein/envseed/internal/report"
)

var (
	runWorkers    int
	runReportPath string
	runSelect     bool
	runJSON       bool
	runBackup     bool
)

// newSelector is replaced in tests.
var newSelector = func() taskSelector { return prompt.NewSelector() }

type taskSelector interface {
	SelectTasks(entries []plan.Entry) ([]plan.Entry, error)
}

// errRunHalted is returned when a task aborted or failed.
// reportAuto as the --report value selects report.DefaultPath.
const reportAuto = "auto"

var errRunHalted = errors.New("provisioning halted by an aborted or failed task")

func init() {
	runCmd.Flags().IntVarP(&runWorkers, "workers", "w", 0,
		"maximum concurrent tasks per batch, 0 for unlimited (default: plan setting)")
	runCmd.Flags().StringVar(&runReportPath, "report", "",
		`save a JSON report to this file, or to the state directory with "auto"`)
	runCmd.Flags().BoolVar(&runSelect, "select", false,
		"choose which tasks to run interactively")
	runCmd.Flags().BoolVar(&runJSON, "json", false,
		"output the report as JSON")
	runCmd.Flags().BoolVar(&runBackup, "backup", false,
		"back up files before replacing them (default: plan setting)")
	rootCmd.AddCommand(runCmd)
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Provision the environment described by the plan",
	Long: `Run every batch of the plan in order.

Exit codes:
  0 - Provisioning completed
  1 - The plan could not be loaded
  2 - A task aborted or failed, or provisioning stopped on an error`,
	Args: cobra.NoArgs,
	RunE: runRun,
}

func runRun(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	logger := logging.FromContext(ctx)

	lp, err := loadPlan(cmd)
	if err != nil {
		return err
	}
	batches := lp.batches

	if runSelect {
		chosen, err := newSelector().SelectTasks(plan.Entries(batches))
		if err != nil {
			if errors.Is(err, prompt.ErrSelectionCancelled) {
				logger.Info("selection cancelled, nothing to do")
				return nil
			}
			return errors.NewUserError(err, "Run without --select to provision every task")
		}
		batches = plan.Select(batches, chosen)
	}

	workers := lp.cfg.Workers
	if cmd.Flags().Changed("workers") {
		workers = runWorkers
	}

	pl, host := hostPlatform()
	p := provisioner.New(
		provisioner.WithConcurrency(workers),
		provisioner.WithPlatform(pl),
		provisioner.WithTaskTimeout(lp.cfg.TaskTimeout),
		provisioner.WithLogger(logger),
	)

	results, runErr := p.Provision(ctx, batches)
	rep := report.New(pl, results, runErr, report.WithHost(host), report.WithSource(lp.cfg.Source))

	if runJSON {
		err = rep.WriteJSON(cmd.OutOrStdout())
	} else {
		err = rep.WriteText(cmd.OutOrStdout(), verbosity > 0)
	}
	if err != nil {
		return errors.Wrap(err, "writing report")
	}

	if path := runReportPath; path != "" {
		if path == reportAuto {
			path = rep.DefaultPath()
		}
		if err := rep.Save(path); err != nil {
			logger.Error("saving report failed", "path", path, "error", err)
		} else {
			logger.Info("report saved", "path", path)
		}
	}

	switch {
	case runErr != nil:
		return errors.NewSystemError(runErr, "Rerun with -vv or --log-file for details")
	case !rep.OK():
		return errors.NewSystemError(errRunHalted, "Run: envseed plan to review the validation results")
	default:
		return nil
	}
}
