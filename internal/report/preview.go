package report

import (
	"io"

	"github.com/thoreinstein/envseed/internal/check"
	"github.com/thoreinstein/envseed/internal/platform"
	"github.com/thoreinstein/envseed/internal/provisioner"
	"github.com/thoreinstein/envseed/internal/task"
)

// Decision is the validation outcome for one planned task.
type Decision struct {
	Batch    string         `json:"batch"`
	Task     string         `json:"task"`
	Decision check.Decision `json:"decision"`
}

// Preview validates every task of batches on p without executing any.
// Unlike a run it does not stop at an abort verdict, so every problem in
// the plan is reported at once.
func Preview(batches []provisioner.Batch, p platform.Platform) []Decision {
	var out []Decision
	for _, b := range batches {
		for _, t := range b.Tasks {
			out = append(out, Decision{
				Batch:    b.Name,
				Task:     t.Name(),
				Decision: task.Validate(t, p),
			})
		}
	}
	return out
}

// WritePreview renders decisions grouped by batch.
func WritePreview(w io.Writer, decisions []Decision) error {
	ew := &errWriter{w: w}

	batch := ""
	for i, d := range decisions {
		if i == 0 || d.Batch != batch {
			batch = d.Batch
			ew.printf("%s\n", bold(batch))
		}
		ew.printf("  %s %s: %s\n", verdictIcon(d.Decision.Verdict), d.Task, d.Decision)
	}

	return ew.err
}

func verdictIcon(v check.Verdict) string {
	switch v {
	case check.VerdictProceed:
		return green("→")
	case check.VerdictSkip:
		return cyan("ℹ")
	case check.VerdictAbort:
		return red("✗")
	default:
		return yellow("?")
	}
}
