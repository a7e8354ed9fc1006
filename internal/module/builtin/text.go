package builtin

import (
	"context"
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/font"

	"git.home.luguber.info/inful/inkframe/internal/bitmap"
	"git.home.luguber.info/inful/inkframe/internal/module"
)

const defaultTextSize = 18

// TextConfig configures the text module.
type TextConfig struct {
	Lines       []string `yaml:"lines"`
	AccentLines []string `yaml:"accent_lines"`
	FontSize    float64  `yaml:"font_size"`
}

// Text renders static lines, centred in the region. Accent lines follow
// the primary lines and are drawn on the accent plane.
type Text struct {
	cfg  TextConfig
	face font.Face
}

// NewText is the factory for the text module.
func NewText(spec module.Spec) (module.Module, error) {
	var cfg TextConfig
	if err := spec.Decode(&cfg); err != nil {
		return nil, err
	}
	if cfg.FontSize == 0 {
		cfg.FontSize = defaultTextSize
	}
	if cfg.FontSize < 0 {
		return nil, fmt.Errorf("font_size must be positive")
	}
	face, err := bitmap.Face(cfg.FontSize)
	if err != nil {
		return nil, err
	}
	return &Text{cfg: cfg, face: face}, nil
}

func (t *Text) Name() string { return "text" }

func (t *Text) Produce(ctx context.Context, region bitmap.Region) (bitmap.Pair, error) {
	if err := ctx.Err(); err != nil {
		return bitmap.Pair{}, err
	}
	pair := bitmap.BlankPair(region)
	lines := append(append([]string(nil), t.cfg.Lines...), t.cfg.AccentLines...)
	if len(lines) == 0 {
		return pair, nil
	}

	lh := bitmap.LineHeight(t.face)
	top := (region.Height - lh*len(lines)) / 2
	for i, line := range lines {
		dst := pair.Primary
		if i >= len(t.cfg.Lines) {
			dst = pair.Accent
		}
		y := top + i*lh
		if y+lh <= 0 || y >= region.Height {
			continue
		}
		bitmap.DrawCentered(dst, image.Rect(0, y, region.Width, y+lh), line, t.face, color.Black)
	}
	return pair, nil
}
