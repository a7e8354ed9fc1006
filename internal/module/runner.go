package module

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"strings"

	"github.com/jonboulle/clockwork"

	"git.home.luguber.info/inful/inkframe/internal/bitmap"
	ferrors "git.home.luguber.info/inful/inkframe/internal/errors"
	"git.home.luguber.info/inful/inkframe/internal/logfields"
	"git.home.luguber.info/inful/inkframe/internal/metrics"
)

// ArtifactPaths resolves where module bitmaps are persisted.
type ArtifactPaths interface {
	ModulePath(position int, plane string) string
}

// Result aggregates the outcomes of one pass.
type Result struct {
	Outcomes []Outcome
	// Errors lists the positions of failed modules.
	Errors []int
	// Info is the per-module status line, e.g. "module 1: OK  module 2: Error!  ".
	Info string
}

// Failed reports whether any module failed.
func (r Result) Failed() bool { return len(r.Errors) > 0 }

// Runner executes module instances sequentially, isolating every fault.
type Runner struct {
	paths    ArtifactPaths
	recorder metrics.Recorder
	clock    clockwork.Clock
}

// Option configures a Runner.
type Option func(*Runner)

// WithRecorder injects a metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(rn *Runner) {
		if r != nil {
			rn.recorder = r
		}
	}
}

// WithClock injects the clock used for durations.
func WithClock(c clockwork.Clock) Option {
	return func(rn *Runner) {
		if c != nil {
			rn.clock = c
		}
	}
}

// NewRunner creates a runner persisting artifacts through paths (nil disables persistence).
func NewRunner(paths ArtifactPaths, opts ...Option) *Runner {
	r := &Runner{paths: paths, recorder: metrics.NoopRecorder{}, clock: clockwork.NewRealClock()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run invokes every instance in position order. It never fails: faulty
// modules are replaced by a blank pair and reported in Result.Errors.
func (r *Runner) Run(ctx context.Context, instances []Instance) Result {
	res := Result{Outcomes: make([]Outcome, 0, len(instances))}
	var info strings.Builder

	for _, inst := range instances {
		spec := inst.Spec
		start := r.clock.Now()
		pair, err := r.produce(ctx, inst)
		elapsed := r.clock.Since(start)

		log := slog.With(logfields.Module(spec.Name), logfields.Position(spec.Position))
		result := metrics.ResultOK
		if err != nil {
			result = metrics.ResultError
			if isPanic(err) {
				result = metrics.ResultPanic
			}
			err = ferrors.ModuleFault(spec.Name, spec.Position, err)
			log.Error("Module failed", logfields.Error(err))
			pair = bitmap.BlankPair(spec.Region)
			res.Errors = append(res.Errors, spec.Position)
			fmt.Fprintf(&info, "module %d: Error!  ", spec.Position)
		} else {
			pair = pair.Fill(spec.Region)
			log.Debug("Module produced bitmaps", logfields.DurationMS(float64(elapsed.Milliseconds())))
			fmt.Fprintf(&info, "module %d: OK  ", spec.Position)
		}
		r.recorder.ObserveModuleDuration(spec.Position, elapsed)
		r.recorder.IncModuleResult(spec.Position, result)

		r.persist(spec, pair)
		res.Outcomes = append(res.Outcomes, Outcome{Spec: spec, Pair: pair, Err: err, Duration: elapsed})
	}

	res.Info = info.String()
	return res
}

type panicError struct {
	value any
}

func (p *panicError) Error() string { return fmt.Sprintf("panic: %v", p.value) }

func isPanic(err error) bool {
	_, ok := err.(*panicError)
	return ok
}

func (r *Runner) produce(ctx context.Context, inst Instance) (pair bitmap.Pair, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			slog.Error("Module panicked",
				logfields.Module(inst.Spec.Name),
				logfields.Position(inst.Spec.Position),
				slog.Any("panic", rec),
				slog.String("stack", string(debug.Stack())))
			pair = bitmap.Pair{}
			err = &panicError{value: rec}
		}
	}()
	if err := ctx.Err(); err != nil {
		return bitmap.Pair{}, err
	}
	return inst.Module.Produce(ctx, inst.Spec.Region)
}

func (r *Runner) persist(spec Spec, pair bitmap.Pair) {
	if r.paths == nil {
		return
	}
	primary := r.paths.ModulePath(spec.Position, bitmap.PlaneBlack)
	accent := r.paths.ModulePath(spec.Position, bitmap.PlaneColour)
	if err := bitmap.SavePair(primary, accent, pair); err != nil {
		slog.Warn("Failed to persist module bitmaps",
			logfields.Position(spec.Position),
			logfields.Path(primary),
			logfields.Error(ferrors.FilesystemError("write", primary, err)))
	}
}
