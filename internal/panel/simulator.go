package panel

import (
	"context"
	"image"
	"image/draw"
	"log/slog"
	"path/filepath"
	"sync/atomic"

	"git.home.luguber.info/inful/inkframe/internal/bitmap"
	"git.home.luguber.info/inful/inkframe/internal/logfields"
)

// CalibrationCycles is the number of black/white cycles in a calibration.
const CalibrationCycles = 3

// Simulator stands in for a physical panel by writing what it would show
// to display_black.png and display_colour.png.
type Simulator struct {
	dir          string
	model        Model
	renders      atomic.Int64
	calibrations atomic.Int64
}

// NewSimulator creates a simulator writing into dir.
func NewSimulator(dir string, model Model) *Simulator {
	return &Simulator{dir: dir, model: model}
}

// Render writes the planes as the panel would receive them.
func (s *Simulator) Render(ctx context.Context, primary, accent image.Image) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := bitmap.SavePNG(s.framePath(bitmap.PlaneBlack), primary); err != nil {
		return err
	}
	if accent != nil && s.model.Colour {
		if err := bitmap.SavePNG(s.framePath(bitmap.PlaneColour), accent); err != nil {
			return err
		}
	}
	s.renders.Add(1)
	slog.Info("Simulated panel refresh", logfields.Model(s.model.Name), slog.Bool("colour", accent != nil))
	return nil
}

// Calibrate flashes full black and full white frames CalibrationCycles times.
func (s *Simulator) Calibrate(ctx context.Context) error {
	w, h := s.model.CanvasSize()
	white := bitmap.White(w, h)
	black := image.NewRGBA(white.Bounds())
	draw.Draw(black, black.Bounds(), image.Black, image.Point{}, draw.Src)
	for cycle := 1; cycle <= CalibrationCycles; cycle++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := bitmap.SavePNG(s.framePath(bitmap.PlaneBlack), black); err != nil {
			return err
		}
		if err := bitmap.SavePNG(s.framePath(bitmap.PlaneBlack), white); err != nil {
			return err
		}
		slog.Debug("Calibration cycle complete", slog.Int("cycle", cycle), logfields.Model(s.model.Name))
	}
	s.calibrations.Add(1)
	slog.Info("Simulated panel calibration", logfields.Model(s.model.Name), slog.Int("cycles", CalibrationCycles))
	return nil
}

// Renders returns how many refreshes were performed.
func (s *Simulator) Renders() int64 { return s.renders.Load() }

// Calibrations returns how many calibrations were performed.
func (s *Simulator) Calibrations() int64 { return s.calibrations.Load() }

func (s *Simulator) framePath(plane string) string {
	return filepath.Join(s.dir, "display_"+plane+".png")
}
