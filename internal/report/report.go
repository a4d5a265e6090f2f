// Package report summarizes a provisioning run for humans and machines.
package report

import (
	"path/filepath"
	"slices"
	"time"

	"github.com/thoreinstein/envseed/internal/errors"
	"github.com/thoreinstein/envseed/internal/paths"
	"github.com/thoreinstein/envseed/internal/platform"
	"github.com/thoreinstein/envseed/internal/result"
	"github.com/thoreinstein/envseed/pkg/fileutil"
)

// Summary aggregates counts of results by status.
type Summary struct {
	Successful int `json:"successful"`
	Partial    int `json:"partial"`
	Skipped    int `json:"skipped"`
	Aborted    int `json:"aborted"`
	Failed     int `json:"failed"`
}

// Total returns the number of counted results.
func (s Summary) Total() int {
	return s.Successful + s.Partial + s.Skipped + s.Aborted + s.Failed
}

// Report aggregates the results of one provisioning run.
type Report struct {
	// Timestamp is when the report was created.
	Timestamp time.Time `json:"timestamp"`

	// Platform is the detected host platform.
	Platform string `json:"platform"`

	// Host is the OS name the platform was detected from.
	Host string `json:"host,omitempty"`

	// Source is the plan file, if any.
	Source string `json:"source,omitempty"`

	// Results holds every result in batch and task order.
	Results []result.Result `json:"results"`

	// Summary contains counts by status.
	Summary Summary `json:"summary"`

	// Fatal is the message of the error that stopped the run, if any.
	Fatal string `json:"fatal,omitempty"`
}

// Option sets optional report fields.
type Option func(*Report)

// WithHost records the host OS name.
func WithHost(host string) Option {
	return func(r *Report) { r.Host = host }
}

// WithSource records the plan file.
func WithSource(source string) Option {
	return func(r *Report) { r.Source = source }
}

// New builds a report from the results of a run and the fatal error, if
// the run stopped on one.
func New(p platform.Platform, results []result.Result, fatal error, opts ...Option) *Report {
	r := &Report{
		Timestamp: time.Now().UTC(),
		Platform:  p.String(),
		Results:   slices.Clone(results),
	}
	if r.Results == nil {
		r.Results = []result.Result{}
	}
	if fatal != nil {
		r.Fatal = fatal.Error()
	}
	for _, opt := range opts {
		opt(r)
	}

	for _, res := range results {
		switch res.Status() {
		case result.StatusSuccessful:
			r.Summary.Successful++
		case result.StatusPartial:
			r.Summary.Partial++
		case result.StatusSkipped:
			r.Summary.Skipped++
		case result.StatusAborted:
			r.Summary.Aborted++
		case result.StatusFailed:
			r.Summary.Failed++
		}
	}

	return r
}

// Aborted returns true if the run was halted by an aborted or failed result.
func (r *Report) Aborted() bool {
	return r.Summary.Aborted > 0 || r.Summary.Failed > 0
}

// HasFatal returns true if the run stopped on a fatal error.
func (r *Report) HasFatal() bool {
	return r.Fatal != ""
}

// OK returns true when the run neither aborted nor failed fatally.
func (r *Report) OK() bool {
	return !r.Aborted() && !r.HasFatal()
}

// DefaultPath returns the location a report is saved to when no path is
// given: <StateDir>/reports/run-<timestamp>.json.
func (r *Report) DefaultPath() string {
	name := "run-" + r.Timestamp.Format("20060102T150405Z") + ".json"
	return filepath.Join(paths.StateDir(), "reports", name)
}

// Save writes the report as JSON to path atomically, creating the parent
// directory if needed.
func (r *Report) Save(path string) error {
	if err := paths.EnsureDir(filepath.Dir(path), 0); err != nil {
		return errors.Wrap(err, "creating report directory")
	}
	if err := fileutil.AtomicWriteJSON(path, r); err != nil {
		return errors.Wrapf(err, "saving report to %s", path)
	}
	return nil
}
