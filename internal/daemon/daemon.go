// Package daemon runs the update loop: one pass per update boundary, each
// pass running the modules, composing and reducing the canvas, calibrating
// on schedule and refreshing the panel only when its content changed.
package daemon

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/inkframe/internal/calibration"
	"git.home.luguber.info/inful/inkframe/internal/canvas"
	"git.home.luguber.info/inful/inkframe/internal/config"
	"git.home.luguber.info/inful/inkframe/internal/fingerprint"
	"git.home.luguber.info/inful/inkframe/internal/logfields"
	"git.home.luguber.info/inful/inkframe/internal/metrics"
	"git.home.luguber.info/inful/inkframe/internal/module"
	"git.home.luguber.info/inful/inkframe/internal/module/builtin"
	"git.home.luguber.info/inful/inkframe/internal/panel"
	"git.home.luguber.info/inful/inkframe/internal/printer"
	"git.home.luguber.info/inful/inkframe/internal/workspace"
)

// Status represents the lifecycle state of the daemon.
type Status string

const (
	StatusStopped Status = "stopped"
	StatusRunning Status = "running"
)

// RunState is kept in memory across passes.
type RunState struct {
	ConsecutiveSuccesses int
	LastInfoLine         string
	Passes               int
	StartedAt            time.Time
}

// Options overrides the collaborators New would otherwise build from the
// configuration.
type Options struct {
	Registry *module.Registry
	Driver   panel.Driver
	// Model overrides the catalog lookup of display.model.
	Model   *panel.Model
	Clock   clockwork.Clock
	Printer *printer.Printer
	// Scratch uses an ephemeral workspace instead of paths.image_dir.
	Scratch bool
	// Prometheus receives the metrics when metrics are enabled.
	Prometheus *prom.Registry
}

// Daemon owns every long-lived component of the display loop.
type Daemon struct {
	cfg    *config.Config
	clock  clockwork.Clock
	layout *workspace.Manager

	instances   []module.Instance
	runner      *module.Runner
	compositor  *canvas.Compositor
	gate        *fingerprint.Gate
	calibration *calibration.Scheduler
	driver      panel.Driver
	model       panel.Model

	recorder metrics.Recorder
	textfile *metrics.TextfileWriter
	printer  *printer.Printer

	mu     sync.RWMutex
	state  RunState
	status Status
}

// New wires the daemon from a validated configuration. Unknown module
// names or panel models fail here, before any pass runs.
func New(cfg *config.Config, opts Options) (*Daemon, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration is required")
	}
	clock := opts.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	d := &Daemon{
		cfg:      cfg,
		clock:    clock,
		recorder: metrics.NoopRecorder{},
		printer:  opts.Printer,
		status:   StatusStopped,
	}

	if opts.Scratch {
		d.layout = workspace.NewManager("")
	} else {
		d.layout = workspace.NewPersistentManager(cfg.Paths.ImageDir)
	}
	if err := d.layout.Create(); err != nil {
		return nil, err
	}

	if cfg.Metrics.Enabled {
		reg := opts.Prometheus
		if reg == nil {
			reg = prom.NewRegistry()
		}
		d.recorder = metrics.NewPrometheusRecorder(reg)
		d.textfile = metrics.NewTextfileWriter(reg, cfg.Metrics.Textfile)
	}

	registry := opts.Registry
	if registry == nil {
		registry = builtin.RegistryWithClock(clock)
	}
	instances, err := registry.Build(module.SpecsFromConfig(cfg.Modules))
	if err != nil {
		return nil, err
	}
	d.instances = instances
	d.runner = module.NewRunner(d.layout, module.WithRecorder(d.recorder), module.WithClock(clock))

	if err := d.resolvePanel(opts); err != nil {
		return nil, err
	}
	width, height := d.canvasSize()
	d.compositor = canvas.New(width, height, canvas.InfoSection{
		Enabled:  cfg.InfoSection.Enabled,
		Height:   cfg.InfoSection.Height,
		FontSize: cfg.InfoSection.FontSize,
	})

	d.gate = fingerprint.NewGate(cfg.Display.ImageHash, d.layout.GetPath())
	if err := d.gate.Purge(); err != nil {
		return nil, err
	}
	d.calibration = calibration.New(cfg.Display.CalibrationHours, d.driver,
		calibration.WithClock(clock),
		calibration.WithRecorder(d.recorder),
		calibration.OnFire(d.purgeFingerprints))

	slog.Info("Display daemon ready",
		logfields.Model(d.model.Name),
		slog.Int("modules", len(d.instances)),
		slog.Int("canvas_width", width),
		slog.Int("canvas_height", height),
		slog.Bool("render", d.driver != nil),
		logfields.Path(d.layout.GetPath()))
	return d, nil
}

func (d *Daemon) resolvePanel(opts Options) error {
	disp := d.cfg.Display
	switch {
	case opts.Model != nil:
		d.model = *opts.Model
	case disp.Model != "":
		m, err := panel.Lookup(disp.Model)
		if err != nil && disp.Render {
			return err
		}
		if err == nil {
			d.model = m
		}
	}
	if !disp.Render {
		return nil
	}
	if opts.Driver != nil {
		d.driver = opts.Driver
		return nil
	}
	drv, err := panel.New(disp, d.layout.GetPath())
	if err != nil {
		return err
	}
	d.driver = drv
	return nil
}

// canvasSize uses the panel geometry, or without a known panel the
// smallest canvas holding every region and the info strip.
func (d *Daemon) canvasSize() (int, int) {
	if d.model.Width > 0 && d.model.Height > 0 {
		return d.model.CanvasSize()
	}
	w, h := 0, 0
	for _, inst := range d.instances {
		w = max(w, inst.Spec.Region.Width)
		h += inst.Spec.Region.Height
	}
	if d.cfg.InfoSection.Enabled {
		h += d.cfg.InfoSection.Height
	}
	slog.Warn("No panel model configured; sizing canvas from module regions", slog.Int("width", w), slog.Int("height", h))
	return w, h
}

func (d *Daemon) purgeFingerprints() {
	if err := d.gate.Purge(); err != nil {
		slog.Error("Failed to purge fingerprints", logfields.Error(err))
	}
}

// State returns a copy of the run state.
func (d *Daemon) State() RunState {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.state
}

// Status returns the lifecycle state.
func (d *Daemon) Status() Status {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.status
}

// Workspace returns the directory holding the artifacts.
func (d *Daemon) Workspace() string { return d.layout.GetPath() }

// Close releases the workspace (ephemeral workspaces are removed).
func (d *Daemon) Close() error {
	return d.layout.Cleanup()
}

// RunOnce performs exactly one pass.
func (d *Daemon) RunOnce(ctx context.Context) error {
	d.markStarted()
	report := d.Pass(ctx)
	d.flushMetrics()
	return report.Err
}

// Calibrate runs a calibration immediately and then one pass, which is
// always a refresh because calibration clears the fingerprints.
func (d *Daemon) Calibrate(ctx context.Context) error {
	if d.driver == nil {
		return fmt.Errorf("calibration requires display.render to be enabled")
	}
	if err := d.calibration.Force(ctx); err != nil {
		return err
	}
	return d.RunOnce(ctx)
}

// Run executes passes on every update boundary until ctx is cancelled.
func (d *Daemon) Run(ctx context.Context) error {
	d.markStarted()
	d.setStatus(StatusRunning)
	defer d.setStatus(StatusStopped)

	if d.textfile != nil {
		tel, err := newTelemetry(d.textfile, d.cfg.Metrics.Flush(), d.clock)
		if err != nil {
			return err
		}
		tel.Start()
		defer tel.Stop()
	}

	slog.Info("Starting update loop", slog.Int("interval_minutes", d.cfg.UpdateInterval))
	for {
		d.Pass(ctx)
		d.flushMetrics()

		wait := d.nextWait()
		slog.Debug("Sleeping until next boundary", slog.Duration("wait", wait))
		select {
		case <-ctx.Done():
			slog.Info("Update loop stopped by context cancellation")
			return nil
		case <-d.clock.After(wait):
		}
	}
}

// nextWait is how long the loop sleeps after a pass finishing now. A pass
// that finished on the boundary it served waits for the following one.
func (d *Daemon) nextWait() time.Duration {
	wait := NextBoundary(d.cfg.UpdateInterval, d.clock.Now())
	if wait < time.Second {
		wait += time.Duration(d.cfg.UpdateInterval) * time.Minute
	}
	return wait
}

func (d *Daemon) markStarted() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state.StartedAt.IsZero() {
		d.state.StartedAt = d.clock.Now()
	}
}

func (d *Daemon) setStatus(s Status) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.status = s
}

func (d *Daemon) flushMetrics() {
	if d.textfile == nil {
		return
	}
	if err := d.textfile.Flush(); err != nil {
		slog.Warn("Failed to write metrics textfile", logfields.Path(d.textfile.Path()), logfields.Error(err))
	}
}
