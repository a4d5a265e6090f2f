package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/thoreinstein/envseed/internal/errors"
	"github.com/thoreinstein/envseed/internal/result"
)

var (
	green  = color.New(color.FgGreen).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
)

// StatusIcon returns the colored icon for a result status.
func StatusIcon(s result.Status) string {
	switch s {
	case result.StatusSuccessful:
		return green("✓")
	case result.StatusPartial:
		return yellow("⚠")
	case result.StatusSkipped:
		return cyan("ℹ")
	case result.StatusAborted, result.StatusFailed:
		return red("✗")
	default:
		return "?"
	}
}

// WriteText renders the report for a terminal. Skipped results are only
// listed when verbose is set.
func (r *Report) WriteText(w io.Writer, verbose bool) error {
	ew := &errWriter{w: w}

	ew.printf("%s %s\n", bold("Platform:"), r.Platform)
	if r.Source != "" {
		ew.printf("%s %s\n", bold("Plan:"), r.Source)
	}
	ew.printf("\n")

	for _, res := range r.Results {
		if !verbose && res.Status() == result.StatusSkipped {
			continue
		}

		ew.printf("%s %s [%s]", StatusIcon(res.Status()), res.Task(), res.Status())
		if res.Reason() != "" {
			ew.printf(": %s", res.Reason())
		}
		ew.printf("\n")

		if cause := res.Cause(); cause != nil {
			ew.printf("  cause: %v\n", cause)
		}
		if verbose {
			for _, c := range res.Changes() {
				ew.printf("  %s\n", c)
			}
		}
	}

	if r.HasFatal() {
		ew.printf("\n%s %s\n", red("fatal:"), r.Fatal)
	} else if r.Aborted() {
		ew.printf("\n%s\n", yellow("Run halted after an aborted or failed task; later batches were not run."))
	}

	ew.printf("\nSummary: %d successful, %d partial, %d skipped, %d aborted, %d failed (%d tasks)\n",
		r.Summary.Successful, r.Summary.Partial, r.Summary.Skipped, r.Summary.Aborted, r.Summary.Failed,
		r.Summary.Total())

	return ew.err
}

// WriteJSON renders the report as indented JSON.
func (r *Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return errors.Wrap(err, "encoding JSON")
	}
	return nil
}

// errWriter keeps the first write error and drops later writes.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) printf(format string, args ...any) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, args...)
}
