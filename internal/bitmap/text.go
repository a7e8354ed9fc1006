package bitmap

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

var (
	regularOnce sync.Once
	regular     *opentype.Font
	regularErr  error

	facesMu sync.Mutex
	faces   = map[float64]font.Face{}
)

// Face returns the Go Regular face at size pixels (72 DPI). Faces are cached
// per size and must not be closed by callers.
func Face(size float64) (font.Face, error) {
	if size <= 0 {
		return nil, fmt.Errorf("invalid font size %v", size)
	}
	regularOnce.Do(func() {
		regular, regularErr = opentype.Parse(goregular.TTF)
	})
	if regularErr != nil {
		return nil, fmt.Errorf("parse go regular: %w", regularErr)
	}

	facesMu.Lock()
	defer facesMu.Unlock()
	if f, ok := faces[size]; ok {
		return f, nil
	}
	f, err := opentype.NewFace(regular, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return nil, fmt.Errorf("create face: %w", err)
	}
	faces[size] = f
	return f, nil
}

// FaceOrFallback returns Face(size), or the fixed 7x13 bitmap face when the
// outline font cannot be loaded.
func FaceOrFallback(size float64) font.Face {
	f, err := Face(size)
	if err != nil {
		return basicfont.Face7x13
	}
	return f
}

// TextWidth returns the advance width of s in pixels.
func TextWidth(face font.Face, s string) int {
	return font.MeasureString(face, s).Ceil()
}

// LineHeight returns the ascent plus descent of face in pixels.
func LineHeight(face font.Face) int {
	m := face.Metrics()
	return (m.Ascent + m.Descent).Ceil()
}

// Truncate removes characters from the end of s until it fits maxWidth.
func Truncate(face font.Face, s string, maxWidth int) string {
	runes := []rune(s)
	for len(runes) > 0 && TextWidth(face, string(runes)) > maxWidth {
		runes = runes[:len(runes)-1]
	}
	return string(runes)
}

// DrawCentered draws s centred in rect, truncating it to the rect width.
func DrawCentered(dst draw.Image, rect image.Rectangle, s string, face font.Face, c color.Color) {
	s = Truncate(face, s, rect.Dx())
	if s == "" {
		return
	}
	m := face.Metrics()
	x := rect.Min.X + (rect.Dx()-TextWidth(face, s))/2
	y := rect.Min.Y + (rect.Dy()-LineHeight(face))/2 + m.Ascent.Ceil()
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}
