package journey

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"runtime/debug"

	"github.com/google/uuid"

	"github.com/thesyncim/journey/pkg/journey/internal"
)

var (
	// ErrNoSteps is returned by Run when given an empty step list.
	ErrNoSteps = errors.New("no steps to run")

	// ErrInterrupted is wrapped by the error Run returns when its context
	// is cancelled before every step was attempted.
	ErrInterrupted = errors.New("run interrupted")
)

// Step is one named unit of verification. Steps may rely on state left in
// the session by earlier steps; the Runner only guarantees that execution
// order equals declaration order.
type Step struct {
	Name string
	Run  func(ctx context.Context, s Session) Outcome
}

// Option configures a Runner.
type Option func(*Runner) error

// Runner executes an ordered list of steps against one session.
type Runner struct {
	open    Opener
	clock   internal.Clock
	logger  *slog.Logger
	onEntry func(Entry)
	runID   func() string
}

// WithClock sets the clock used to stamp entries.
// Default: the system monotonic clock.
func WithClock(c internal.Clock) Option {
	return func(r *Runner) error {
		if c == nil {
			return errors.New("clock must not be nil")
		}
		r.clock = c
		return nil
	}
}

// WithLogger sets the structured logger.
// Default: a logger that discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) error {
		if l == nil {
			return errors.New("logger must not be nil")
		}
		r.logger = l
		return nil
	}
}

// WithOnEntry registers a callback invoked right after each entry is
// appended, so callers can print results as they complete.
func WithOnEntry(fn func(Entry)) Option {
	return func(r *Runner) error {
		r.onEntry = fn
		return nil
	}
}

// WithRunID fixes the run identifier instead of generating a UUID.
func WithRunID(id string) Option {
	return func(r *Runner) error {
		if id == "" {
			return errors.New("run id must not be empty")
		}
		r.runID = func() string { return id }
		return nil
	}
}

// NewRunner creates a Runner that acquires its session from open.
func NewRunner(open Opener, opts ...Option) (*Runner, error) {
	if open == nil {
		return nil, errors.New("opener must not be nil")
	}
	r := &Runner{
		open:   open,
		clock:  internal.MonotonicClock{},
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		runID:  func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Run executes steps in order against a freshly opened session and returns
// one entry per attempted step.
//
// A failure to open the session is fatal: Run returns a nil log. Every
// other path releases the session exactly once. A step that fails or
// panics is recorded and the run moves on. If ctx is cancelled, Run stops
// before the next step and returns the entries so far with an error
// wrapping ErrInterrupted. A release failure is returned alongside the
// complete log.
func (r *Runner) Run(ctx context.Context, steps []Step) (log *Log, err error) {
	if len(steps) == 0 {
		return nil, ErrNoSteps
	}

	sess, err := r.open(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to open session: %w", err)
	}

	log = newLog(r.runID())
	logger := r.logger.With("run_id", log.runID)

	defer func() {
		if cerr := sess.Close(); cerr != nil {
			logger.Error("session release failed", "error", cerr)
			err = errors.Join(err, fmt.Errorf("failed to release session: %w", cerr))
		}
	}()

	logger.Info("run started", "steps", len(steps))

	for i, step := range steps {
		if cerr := ctx.Err(); cerr != nil {
			logger.Warn("run interrupted", "attempted", log.Len(), "steps", len(steps))
			return log, fmt.Errorf("%w after %d of %d steps: %w", ErrInterrupted, log.Len(), len(steps), cerr)
		}

		start := r.clock.Now()
		logger.Debug("step started", "index", i+1, "step", step.Name)

		out := r.runStep(ctx, step, sess)
		end := r.clock.Now()

		e := Entry{
			Index:    i + 1,
			Name:     step.Name,
			Passed:   out.Passed,
			Kind:     out.Kind,
			Message:  out.Message,
			Time:     start,
			Duration: end.Sub(start),
		}
		log.append(e)

		if e.Passed {
			logger.Info("step passed", "index", e.Index, "step", e.Name, "duration", e.Duration)
		} else {
			logger.Info("step failed", "index", e.Index, "step", e.Name, "kind", e.Kind.String(), "message", e.Message)
		}

		if r.onEntry != nil {
			r.onEntry(e)
		}
	}

	logger.Info("run finished", "attempted", log.Len())
	return log, nil
}

// runStep invokes one step, converting a panic into a fault outcome.
func (r *Runner) runStep(ctx context.Context, step Step, sess Session) (out Outcome) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Debug("step panicked", "step", step.Name, "panic", rec, "stack", string(debug.Stack()))
			out = Fail(FailFault, fmt.Sprintf("panic: %v", rec))
		}
	}()

	if step.Run == nil {
		return Fail(FailFault, "step has no procedure")
	}
	out = step.Run(ctx, sess)
	if !out.Passed && out.Kind == NoFailure {
		out.Kind = FailFault
	}
	return out
}
