// Package canvas assembles module bitmaps into the two full-size planes
// shown by the panel.
package canvas

import (
	"image"
	"image/color"
	"image/draw"
	"log/slog"

	"golang.org/x/image/font"

	"git.home.luguber.info/inful/inkframe/internal/bitmap"
	"git.home.luguber.info/inful/inkframe/internal/module"
)

// DefaultInfoFontSize is the status line font size in pixels.
const DefaultInfoFontSize = 14

// State is the composed canvas of one pass.
type State struct {
	Primary *image.RGBA
	Accent  *image.RGBA
	// Vertical cursors after the last pasted region of each plane.
	PrimaryCursor int
	AccentCursor  int
}

// InfoSection configures the status strip at the bottom of the primary plane.
type InfoSection struct {
	Enabled  bool
	Height   int
	FontSize float64
}

// Compositor lays module outputs out in fixed vertical slots.
type Compositor struct {
	width  int
	height int
	info   InfoSection
	face   font.Face
}

// New creates a compositor for a canvas of width x height (already in the
// operating orientation).
func New(width, height int, info InfoSection) *Compositor {
	c := &Compositor{width: width, height: height, info: info}
	if info.Enabled {
		size := info.FontSize
		if size <= 0 {
			size = DefaultInfoFontSize
		}
		c.face = bitmap.FaceOrFallback(size)
	}
	return c
}

// Size returns the canvas dimensions.
func (c *Compositor) Size() (width, height int) { return c.width, c.height }

// Compose pastes every outcome in position order and draws the status line.
func (c *Compositor) Compose(outcomes []module.Outcome, info string) *State {
	st := &State{
		Primary: bitmap.White(c.width, c.height),
		Accent:  bitmap.White(c.width, c.height),
	}
	for _, o := range outcomes {
		region := o.Spec.Region
		st.PrimaryCursor = paste(st.Primary, o.Pair.Primary, region, st.PrimaryCursor)
		st.AccentCursor = paste(st.Accent, o.Pair.Accent, region, st.AccentCursor)
	}
	if st.PrimaryCursor > c.height {
		slog.Warn("Module regions exceed canvas height",
			slog.Int("regions_height", st.PrimaryCursor),
			slog.Int("canvas_height", c.height))
	}
	if c.info.Enabled && c.info.Height > 0 {
		strip := image.Rect(0, c.height-c.info.Height, c.width, c.height)
		bitmap.DrawCentered(st.Primary, strip, info, c.face, color.Black)
	}
	return st
}

// paste centres src in the region starting at cursor and returns the
// advanced cursor. Pixels outside the region are clipped, so an oversized
// bitmap never reaches a neighbouring slot. The cursor moves by the
// declared region height regardless of the bitmap size.
func paste(dst *image.RGBA, src *image.NRGBA, region bitmap.Region, cursor int) int {
	if src != nil {
		b := src.Bounds()
		at := Offset(region, b.Dx(), b.Dy(), cursor)
		slot := image.Rect(0, cursor, region.Width, cursor+region.Height)
		r := b.Sub(b.Min).Add(at).Intersect(slot)
		if !r.Empty() {
			draw.Draw(dst, r, src, b.Min.Add(r.Min.Sub(at)), draw.Over)
		}
	}
	return cursor + region.Height
}

// Offset returns where a bitmap of size w x h lands inside region at cursor.
func Offset(region bitmap.Region, w, h, cursor int) image.Point {
	return image.Pt(floorDiv(region.Width-w, 2), cursor+floorDiv(region.Height-h, 2))
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
