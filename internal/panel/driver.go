// Package panel defines the boundary to the e-paper panel driver: the
// rendering and calibration primitives, the model catalog reporting native
// sizes and colour capability, and the drivers shipped with inkframe.
package panel

import (
	"context"
	"fmt"
	"image"

	"git.home.luguber.info/inful/inkframe/internal/config"
)

// Driver performs the electrical refresh of a panel.
type Driver interface {
	// Render shows the given planes. accent is nil on monochrome panels.
	Render(ctx context.Context, primary, accent image.Image) error
	// Calibrate runs the multi-cycle full refresh that clears ghosting.
	Calibrate(ctx context.Context) error
}

// New returns the driver selected by the display settings.
// It returns a nil driver when rendering is disabled.
func New(d config.DisplayConfig, imageDir string) (Driver, error) {
	if !d.Render {
		return nil, nil
	}
	model, err := Lookup(d.Model)
	if err != nil {
		return nil, err
	}
	switch d.Driver {
	case config.DriverSimulator:
		return NewSimulator(imageDir, model), nil
	case config.DriverNone:
		return Discard{}, nil
	default:
		return nil, fmt.Errorf("unsupported panel driver %q", d.Driver)
	}
}

// Discard accepts every call and does nothing.
type Discard struct{}

func (Discard) Render(context.Context, image.Image, image.Image) error { return nil }
func (Discard) Calibrate(context.Context) error                      { return nil }
