// Package planes reduces composed planes to the two levels a panel can show
// and derives the preview and monochrome images from them.
package planes

import (
	stdErrors "errors"
	"image"
	"image/color"
	"image/draw"
	"os"

	"git.home.luguber.info/inful/inkframe/internal/bitmap"
	ferrors "git.home.luguber.info/inful/inkframe/internal/errors"
)

// DefaultThreshold is the channel value at or below which a pixel counts as ink.
const DefaultThreshold uint8 = 220

// Red is the default highlight colour of the preview.
var Red = color.RGBA{R: 0xff, A: 0xff}

// ErrNoImagesToMerge is returned by MergeFromDisk when no primary plane exists.
var ErrNoImagesToMerge = stdErrors.New("no images to merge")

func inked(pix []uint8, i int, t uint8) bool {
	return pix[i] <= t && pix[i+1] <= t
}

// Reduce turns every pixel with red and green at or below t into pure black.
// All other pixels are left as they are.
func Reduce(img image.Image, t uint8) *image.RGBA {
	out := bitmap.ToRGBA(img)
	for i := 0; i < len(out.Pix); i += 4 {
		if inked(out.Pix, i, t) {
			out.Pix[i], out.Pix[i+1], out.Pix[i+2], out.Pix[i+3] = 0, 0, 0, 0xff
		}
	}
	return out
}

// ClearWhite makes pure-white pixels fully transparent and every other
// pixel fully opaque.
func ClearWhite(img image.Image) *image.NRGBA {
	out := bitmap.ToNRGBA(img)
	for i := 0; i < len(out.Pix); i += 4 {
		if out.Pix[i] == 0xff && out.Pix[i+1] == 0xff && out.Pix[i+2] == 0xff {
			out.Pix[i+3] = 0
		} else {
			out.Pix[i+3] = 0xff
		}
	}
	return out
}

// Highlight paints every inked pixel (see Reduce) with c.
func Highlight(img image.Image, t uint8, c color.Color) *image.RGBA {
	out := bitmap.Opaque(img)
	r, g, b, a := c.RGBA()
	for i := 0; i < len(out.Pix); i += 4 {
		if inked(out.Pix, i, t) {
			out.Pix[i], out.Pix[i+1], out.Pix[i+2], out.Pix[i+3] = uint8(r>>8), uint8(g>>8), uint8(b>>8), uint8(a>>8)
		}
	}
	return out
}

// Preview shows the primary plane over the accent plane painted in c.
func Preview(primary, accent image.Image, t uint8, c color.Color) *image.RGBA {
	out := Highlight(accent, t, c)
	draw.Draw(out, out.Bounds(), ClearWhite(primary), image.Point{}, draw.Over)
	return out
}

// Merge folds the accent plane into the primary plane for monochrome panels.
func Merge(primary, accent image.Image) *image.RGBA {
	out := bitmap.ToRGBA(primary)
	draw.Draw(out, out.Bounds(), ClearWhite(accent), image.Point{}, draw.Over)
	return out
}

// MergeFromDisk merges the persisted planes. Only the primary plane is
// required; without it the merge fails with ErrNoImagesToMerge.
func MergeFromDisk(primaryPath, accentPath string) (*image.RGBA, error) {
	primary, err := bitmap.LoadPNG(primaryPath)
	if err != nil {
		if stdErrors.Is(err, os.ErrNotExist) {
			return nil, ferrors.CompositionFault("merge", ErrNoImagesToMerge).
				WithContext("path", primaryPath)
		}
		return nil, ferrors.FilesystemError("read", primaryPath, err)
	}
	accent, err := bitmap.LoadPNG(accentPath)
	if err != nil {
		if stdErrors.Is(err, os.ErrNotExist) {
			return bitmap.ToRGBA(primary), nil
		}
		return nil, ferrors.FilesystemError("read", accentPath, err)
	}
	return Merge(primary, accent), nil
}
