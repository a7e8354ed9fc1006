package builtin

import (
	"context"
	"image"
	"image/color"

	"github.com/jonboulle/clockwork"
	"golang.org/x/image/font"

	"git.home.luguber.info/inful/inkframe/internal/bitmap"
	"git.home.luguber.info/inful/inkframe/internal/module"
)

// DefaultClockFormat is the Go time layout used when none is configured.
const DefaultClockFormat = "Monday 2 January 2006 15:04"

// ClockConfig configures the clock module.
type ClockConfig struct {
	Format   string  `yaml:"format"`
	FontSize float64 `yaml:"font_size"`
}

// Clock renders the current time on the primary plane and the weekday on
// the accent plane.
type Clock struct {
	cfg   ClockConfig
	clock clockwork.Clock
	face  font.Face
}

// NewClock is the factory for the clock module.
func NewClock(spec module.Spec, clock clockwork.Clock) (module.Module, error) {
	var cfg ClockConfig
	if err := spec.Decode(&cfg); err != nil {
		return nil, err
	}
	if cfg.Format == "" {
		cfg.Format = DefaultClockFormat
	}
	if cfg.FontSize <= 0 {
		cfg.FontSize = defaultTextSize
	}
	face, err := bitmap.Face(cfg.FontSize)
	if err != nil {
		return nil, err
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Clock{cfg: cfg, clock: clock, face: face}, nil
}

func (c *Clock) Name() string { return "clock" }

func (c *Clock) Produce(ctx context.Context, region bitmap.Region) (bitmap.Pair, error) {
	if err := ctx.Err(); err != nil {
		return bitmap.Pair{}, err
	}
	now := c.clock.Now()
	pair := bitmap.BlankPair(region)

	lh := bitmap.LineHeight(c.face)
	top := (region.Height - 2*lh) / 2
	bitmap.DrawCentered(pair.Accent, image.Rect(0, top, region.Width, top+lh), now.Weekday().String(), c.face, color.Black)
	bitmap.DrawCentered(pair.Primary, image.Rect(0, top+lh, region.Width, top+2*lh), now.Format(c.cfg.Format), c.face, color.Black)
	return pair, nil
}
