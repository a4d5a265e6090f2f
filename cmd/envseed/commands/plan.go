package commands

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/envseed/internal/check"
	"github.com/thoreinstein/envseed/internal/errors"
	"github.com/thoreinstein/envseed/internal/report"
)

var planJSON bool

// errPlanAborts is returned when a task would abort the run.
var errPlanAborts = errors.New("the plan contains tasks that would abort the run")

func init() {
	planCmd.Flags().BoolVar(&planJSON, "json", false,
		"output decisions as JSON")
	rootCmd.AddCommand(planCmd)
}

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Validate the plan without changing anything",
	Long: `Load the plan and show, for every task, whether a run would proceed,
skip or abort it on this host. Nothing is created or modified.

Exit codes:
  0 - No task would abort
  1 - The plan could not be loaded
  2 - At least one task would abort`,
	Args: cobra.NoArgs,
	RunE: runPlan,
}

func runPlan(cmd *cobra.Command, _ []string) error {
	lp, err := loadPlan(cmd)
	if err != nil {
		return err
	}

	pl, _ := hostPlatform()
	decisions := report.Preview(lp.batches, pl)

	if planJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(decisions); err != nil {
			return errors.Wrap(err, "encoding JSON")
		}
	} else if err := report.WritePreview(cmd.OutOrStdout(), decisions); err != nil {
		return errors.Wrap(err, "writing plan")
	}

	for _, d := range decisions {
		if d.Decision.Verdict == check.VerdictAbort {
			return errors.NewSystemError(errPlanAborts, "Fix the aborting tasks before running")
		}
	}
	return nil
}
