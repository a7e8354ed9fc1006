package daemon

import (
	"context"
	"image"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/inkframe/internal/bitmap"
	ferrors "git.home.luguber.info/inful/inkframe/internal/errors"
	"git.home.luguber.info/inful/inkframe/internal/fingerprint"
	"git.home.luguber.info/inful/inkframe/internal/logfields"
	"git.home.luguber.info/inful/inkframe/internal/metrics"
	"git.home.luguber.info/inful/inkframe/internal/module"
	"git.home.luguber.info/inful/inkframe/internal/planes"
	"git.home.luguber.info/inful/inkframe/internal/printer"
)

// infoTimeLayout prefixes the status line while fingerprints are disabled.
const infoTimeLayout = "2 Jan @ 15:04"

// PassReport summarises one pass.
type PassReport struct {
	ID         string
	Result     module.Result
	Info       string
	Refreshed  bool
	Calibrated bool
	Duration   time.Duration
	// Err is the fault that abandoned the render step, if any.
	Err error
}

// Pass runs modules, composes and reduces the canvas and, when rendering
// is enabled, calibrates on schedule and refreshes the panel if needed.
// Module faults never surface here; they are part of the result.
func (d *Daemon) Pass(ctx context.Context) PassReport {
	start := d.clock.Now()
	report := PassReport{ID: uuid.NewString()}
	log := slog.With(logfields.PassID(report.ID))
	log.Info("Starting pass")

	report.Result = d.runner.Run(ctx, d.instances)
	report.Info = report.Result.Info
	if !d.gate.Enabled() {
		report.Info = start.Format(infoTimeLayout) + "  " + report.Info
	}

	report.Err = d.render(ctx, log, &report)
	if report.Err != nil {
		log.Error("Pass render step abandoned", logfields.Error(report.Err))
	}

	report.Duration = d.clock.Since(start)
	consecutive := d.recordPass(report)
	d.recorder.ObservePassDuration(report.Duration)
	d.recorder.SetConsecutiveSuccesses(consecutive)

	if report.Result.Failed() {
		log.Warn("Pass finished with module errors", slog.Any("failed_positions", report.Result.Errors), slog.String("info", report.Info))
	} else {
		log.Info("No errors since display updates", slog.Int("consecutive", consecutive))
	}
	log.Info("Pass complete", logfields.Refresh(report.Refreshed), logfields.DurationMS(float64(report.Duration.Milliseconds())))

	if d.printer != nil {
		d.printer.Pass(printer.PassSummary{
			PassID:      report.ID,
			Info:        report.Info,
			Failed:      report.Result.Errors,
			Refreshed:   report.Refreshed,
			Calibrated:  report.Calibrated,
			Consecutive: consecutive,
			Duration:    report.Duration,
			Next:        d.nextWait(),
		})
	}
	return report
}

func (d *Daemon) render(ctx context.Context, log *slog.Logger, report *PassReport) error {
	st := d.compositor.Compose(report.Result.Outcomes, report.Info)

	t := uint8(d.cfg.Display.Threshold)
	primary := planes.Reduce(st.Primary, t)
	accent := planes.Reduce(st.Accent, t)
	for plane, img := range map[string]*image.RGBA{bitmap.PlaneBlack: primary, bitmap.PlaneColour: accent} {
		path := d.layout.PlanePath(plane)
		if err := bitmap.SavePNG(path, img); err != nil {
			return ferrors.FilesystemError("write", path, err).WithContext(logfields.KeyPlane, plane)
		}
	}
	preview := planes.Preview(primary, accent, t, planes.Red)
	if err := bitmap.SavePNG(d.layout.FullScreenPath(), preview); err != nil {
		log.Warn("Failed to write preview", logfields.Path(d.layout.FullScreenPath()), logfields.Error(err))
	}

	if d.driver == nil {
		return nil
	}

	calibrated, err := d.calibration.Check(ctx, d.clock.Now())
	report.Calibrated = calibrated
	if err != nil {
		log.Error("Calibration failed; continuing with refresh", logfields.Error(err))
	}

	var shown, shownAccent image.Image
	candidates := make([]fingerprint.Candidate, 0, 2)
	if d.model.Colour {
		shown, shownAccent = primary, accent
		if d.cfg.Display.Orientation == 180 {
			shown, shownAccent = bitmap.Rotate180(shown), bitmap.Rotate180(shownAccent)
		}
		candidates = append(candidates,
			fingerprint.Candidate{HashPath: d.layout.HashPath(d.layout.CanvasPath()), Image: shown},
			fingerprint.Candidate{HashPath: d.layout.HashPath(d.layout.CanvasColourPath()), Image: shownAccent})
	} else {
		merged, err := planes.MergeFromDisk(d.layout.CanvasPath(), d.layout.CanvasColourPath())
		if err != nil {
			return err
		}
		shown = merged
		if d.cfg.Display.Orientation == 180 {
			shown = bitmap.Rotate180(merged)
		}
		candidates = append(candidates,
			fingerprint.Candidate{HashPath: d.layout.HashPath(d.layout.CanvasPath()), Image: shown})
	}

	decision, err := d.gate.Decide(candidates)
	if err != nil {
		return err
	}
	if !decision.Refresh {
		d.recorder.IncRefreshDecision(metrics.DecisionSkip)
		log.Info("Panel content unchanged; skipping refresh", logfields.Refresh(false))
		return nil
	}
	d.recorder.IncRefreshDecision(metrics.DecisionRefresh)

	if err := d.driver.Render(ctx, shown, shownAccent); err != nil {
		return ferrors.DriverFault("render", err)
	}
	report.Refreshed = true
	if err := decision.Commit(); err != nil {
		return err
	}
	log.Info("Panel refreshed", logfields.Refresh(true), logfields.Model(d.model.Name))
	return nil
}

func (d *Daemon) recordPass(report PassReport) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	if report.Result.Failed() {
		d.state.ConsecutiveSuccesses = 0
	} else {
		d.state.ConsecutiveSuccesses++
	}
	d.state.LastInfoLine = report.Info
	d.state.Passes++
	return d.state.ConsecutiveSuccesses
}
