// Package calibration fires the panel's ghosting-reset cycle at configured
// hours of the day, at most once per hour.
package calibration

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	ferrors "git.home.luguber.info/inful/inkframe/internal/errors"
	"git.home.luguber.info/inful/inkframe/internal/logfields"
	"git.home.luguber.info/inful/inkframe/internal/metrics"
)

// State of the scheduler.
type State int

const (
	Idle State = iota
	FiredThisHour
)

func (s State) String() string {
	if s == FiredThisHour {
		return "fired_this_hour"
	}
	return "idle"
}

// Calibrator runs the calibration cycle; panel.Driver satisfies it.
type Calibrator interface {
	Calibrate(ctx context.Context) error
}

// Scheduler tracks due hours and whether the current hour already fired.
type Scheduler struct {
	mu       sync.Mutex
	due      map[int]bool
	target   Calibrator
	clock    clockwork.Clock
	recorder metrics.Recorder
	onFire   func()
	state    State
	firedAt  string
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithClock injects the clock used by Check when now is zero.
func WithClock(c clockwork.Clock) Option {
	return func(s *Scheduler) { s.clock = c }
}

// WithRecorder injects a metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(s *Scheduler) { s.recorder = r }
}

// OnFire registers a hook invoked after every calibration attempt.
func OnFire(fn func()) Option {
	return func(s *Scheduler) { s.onFire = fn }
}

// New creates a scheduler for the given hours (0..23).
func New(hours []int, target Calibrator, opts ...Option) *Scheduler {
	s := &Scheduler{
		due:      make(map[int]bool, len(hours)),
		target:   target,
		clock:    clockwork.NewRealClock(),
		recorder: metrics.NoopRecorder{},
	}
	for _, h := range hours {
		s.due[h] = true
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns the current state.
func (s *Scheduler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Due reports whether hour is a calibration hour. The set is fixed at New.
func (s *Scheduler) Due(hour int) bool { return s.due[hour] }

// Check calibrates when now falls in a due hour that has not fired yet.
// It reports whether a calibration was attempted. A zero now uses the
// scheduler clock.
func (s *Scheduler) Check(ctx context.Context, now time.Time) (bool, error) {
	if now.IsZero() {
		now = s.clock.Now()
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.Due(now.Hour()) {
		s.state = Idle
		s.firedAt = ""
		return false, nil
	}
	key := now.Format("2006-01-02T15")
	if s.state == FiredThisHour && s.firedAt == key {
		return false, nil
	}

	log := slog.With(logfields.Hour(now.Hour()))
	log.Info("Calibrating panel")
	var err error
	if s.target != nil {
		if cerr := s.target.Calibrate(ctx); cerr != nil {
			err = ferrors.DriverFault("calibrate", cerr)
		}
	}
	s.state = FiredThisHour
	s.firedAt = key
	s.recorder.IncCalibration(err == nil)
	if s.onFire != nil {
		s.onFire()
	}
	if err != nil {
		log.Error("Calibration failed", logfields.Error(err))
		return true, err
	}
	log.Info("Calibration complete")
	return true, nil
}

// Force runs a calibration immediately, regardless of the hour.
func (s *Scheduler) Force(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var err error
	if s.target != nil {
		if cerr := s.target.Calibrate(ctx); cerr != nil {
			err = ferrors.DriverFault("calibrate", cerr)
		}
	}
	s.recorder.IncCalibration(err == nil)
	if s.onFire != nil {
		s.onFire()
	}
	return err
}
