// Package bitmap holds the image types passed between modules, the canvas
// compositor and the panel driver, plus PNG persistence helpers.
package bitmap

import (
	"image"
	"image/color"
	"image/draw"
)

// Plane names used in artifact file names.
const (
	PlaneBlack  = "black"
	PlaneColour = "colour"
)

// Region is the fixed rectangular slot reserved for one module.
type Region struct {
	Width  int
	Height int
}

// Rect returns the region anchored at the origin.
func (r Region) Rect() image.Rectangle {
	return image.Rect(0, 0, r.Width, r.Height)
}

// Pair is the output of one module for one pass.
type Pair struct {
	Primary *image.NRGBA
	Accent  *image.NRGBA
}

// Blank returns a fully transparent bitmap.
func Blank(width, height int) *image.NRGBA {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return image.NewNRGBA(image.Rect(0, 0, width, height))
}

// BlankPair returns a transparent pair filling region.
func BlankPair(region Region) Pair {
	return Pair{
		Primary: Blank(region.Width, region.Height),
		Accent:  Blank(region.Width, region.Height),
	}
}

// Fill returns missing planes as transparent bitmaps of the region size.
func (p Pair) Fill(region Region) Pair {
	if p.Primary == nil {
		p.Primary = Blank(region.Width, region.Height)
	}
	if p.Accent == nil {
		p.Accent = Blank(region.Width, region.Height)
	}
	return p
}

// White returns an opaque white canvas.
func White(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	return img
}

// ToNRGBA converts any image to a zero-origin NRGBA copy.
func ToNRGBA(src image.Image) *image.NRGBA {
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst
}

// ToRGBA converts any image to a zero-origin RGBA copy.
func ToRGBA(src image.Image) *image.RGBA {
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst
}

// Opaque flattens src onto white and returns an RGBA copy, so pixel buffers of
// visually identical planes are byte-identical.
func Opaque(src image.Image) *image.RGBA {
	b := src.Bounds()
	dst := White(b.Dx(), b.Dy())
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Over)
	return dst
}

// Rotate180 returns src turned upside down.
func Rotate180(src image.Image) *image.RGBA {
	in := ToRGBA(src)
	w, h := in.Rect.Dx(), in.Rect.Dy()
	out := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			si := in.PixOffset(x, y)
			di := out.PixOffset(w-1-x, h-1-y)
			copy(out.Pix[di:di+4], in.Pix[si:si+4])
		}
	}
	return out
}
