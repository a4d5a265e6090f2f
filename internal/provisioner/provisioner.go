// Package provisioner runs batches of provisioning tasks.
//
// Batches run strictly in order. The tasks of one batch run concurrently on
// an Executor and are joined before the next batch starts. Once a batch
// produces an aborted or failed result no further batch is scheduled.
package provisioner

import (
	"context"
	"log/slog"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/thoreinstein/envseed/internal/errors"
	"github.com/thoreinstein/envseed/internal/logging"
	"github.com/thoreinstein/envseed/internal/platform"
	"github.com/thoreinstein/envseed/internal/result"
	"github.com/thoreinstein/envseed/internal/task"
)

// Batch is a named set of tasks that are safe to run concurrently.
type Batch struct {
	Name  string
	Tasks []task.Task
}

// Executor runs submitted functions, possibly concurrently, and waits for
// all of them. Wait returns the first non-nil error returned by a function.
// An Executor must not cancel running functions when one fails.
// *errgroup.Group created without a context satisfies Executor.
type Executor interface {
	Go(fn func() error)
	Wait() error
}

// ExecutorFactory returns a fresh Executor for a single batch.
type ExecutorFactory func() Executor

// Provisioner runs batches of tasks. It holds no state between runs and
// may be reused.
type Provisioner struct {
	newExecutor ExecutorFactory
	detect      func() platform.Platform
	taskTimeout time.Duration
	logger      *slog.Logger
}

// Option configures a Provisioner.
type Option func(*Provisioner)

// WithConcurrency limits the number of tasks of a batch that run at the
// same time. n <= 0 removes the limit.
func WithConcurrency(n int) Option {
	return func(p *Provisioner) {
		p.newExecutor = boundedGroup(n)
	}
}

// WithExecutor makes the Provisioner run every batch on an Executor built
// by f. It replaces any WithConcurrency setting.
func WithExecutor(f ExecutorFactory) Option {
	return func(p *Provisioner) {
		if f != nil {
			p.newExecutor = f
		}
	}
}

// WithPlatform skips host detection and validates tasks against pl.
func WithPlatform(pl platform.Platform) Option {
	return func(p *Provisioner) {
		p.detect = func() platform.Platform { return pl }
	}
}

// WithTaskTimeout gives each task a context with the given deadline.
// Tasks are expected to honor it; the Provisioner never abandons a task.
// d <= 0 disables the deadline.
func WithTaskTimeout(d time.Duration) Option {
	return func(p *Provisioner) {
		p.taskTimeout = d
	}
}

// WithLogger sets the logger. By default the logger is taken from the
// context passed to Provision.
func WithLogger(l *slog.Logger) Option {
	return func(p *Provisioner) {
		p.logger = l
	}
}

// New creates a Provisioner. By default every task of a batch runs in its
// own goroutine on an errgroup and the platform is detected once per run.
func New(opts ...Option) *Provisioner {
	p := &Provisioner{
		newExecutor: boundedGroup(0),
		detect:      platform.DetectHost,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Provision runs batches in order and returns the results of every
// processed batch, in batch order and, within a batch, in task order.
//
// After a batch containing an aborted or failed result, the remaining
// batches are not scheduled and the results so far are returned with a
// nil error.
//
// If a task returns an error from Execute or panics, the run stops after
// that batch has been joined and a *FatalError is returned together with
// the results of all batches completed before it. The results of the
// failing batch are discarded.
func (p *Provisioner) Provision(ctx context.Context, batches []Batch) ([]result.Result, error) {
	logger := p.logger
	if logger == nil {
		logger = logging.FromContext(ctx)
	}

	host := p.detect()
	logger.Debug("provisioning started", "platform", host.String(), "batches", len(batches))

	var results []result.Result
	for i, b := range batches {
		logger.Info("batch started", "batch", b.Name, "tasks", len(b.Tasks))

		batchResults, err := p.runBatch(ctx, host, b, logger)
		if err != nil {
			logger.Error("batch failed", "batch", b.Name, "error", err)
			return results, &FatalError{Batch: b.Name, Index: i, Err: err}
		}

		results = append(results, batchResults...)

		if slices.ContainsFunc(batchResults, result.Result.IsAbortion) {
			logger.Warn("halting after abortion status",
				"batch", b.Name, "skipped_batches", len(batches)-i-1)
			break
		}
		logger.Info("batch finished", "batch", b.Name)
	}

	return results, nil
}

func (p *Provisioner) runBatch(ctx context.Context, host platform.Platform, b Batch, logger *slog.Logger) ([]result.Result, error) {
	results := make([]result.Result, len(b.Tasks))
	exec := p.newExecutor()

	for i, t := range b.Tasks {
		exec.Go(func() error {
			res, err := p.runTask(ctx, host, t)
			if err != nil {
				return err
			}
			logger.Debug("task finished",
				"batch", b.Name, "task", res.Task(), "status", res.Status().String(), "reason", res.Reason())
			results[i] = res
			return nil
		})
	}

	if err := exec.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (p *Provisioner) runTask(ctx context.Context, host platform.Platform, t task.Task) (res result.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Newf("task %s panicked: %v", t.Name(), r)
		}
	}()

	if p.taskTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.taskTimeout)
		defer cancel()
	}

	return task.Provision(ctx, t, host)
}

func boundedGroup(n int) ExecutorFactory {
	return func() Executor {
		g := new(errgroup.Group)
		if n > 0 {
			g.SetLimit(n)
		}
		return g
	}
}
