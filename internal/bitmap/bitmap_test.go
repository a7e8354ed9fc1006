package bitmap

import (
	"image"
	"image/color"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlankPair_IsTransparentAndSized(t *testing.T) {
	p := BlankPair(Region{Width: 30, Height: 20})
	assert.Equal(t, image.Rect(0, 0, 30, 20), p.Primary.Bounds())
	assert.Equal(t, image.Rect(0, 0, 30, 20), p.Accent.Bounds())
	assert.Equal(t, color.NRGBA{}, p.Primary.NRGBAAt(5, 5))
}

func TestPairFill_ReplacesOnlyMissingPlanes(t *testing.T) {
	primary := Blank(3, 3)
	p := Pair{Primary: primary}.Fill(Region{Width: 8, Height: 4})
	assert.Same(t, primary, p.Primary)
	require.NotNil(t, p.Accent)
	assert.Equal(t, image.Rect(0, 0, 8, 4), p.Accent.Bounds())
}

func TestRotate180(t *testing.T) {
	src := White(3, 2)
	src.Set(0, 0, color.Black)

	out := Rotate180(src)
	assert.Equal(t, color.RGBA{A: 255}, out.RGBAAt(2, 1))
	assert.Equal(t, color.RGBA{R: 255, G: 255, B: 255, A: 255}, out.RGBAAt(0, 0))
	assert.Equal(t, Rotate180(out).Pix, src.Pix, "two half turns are the identity")
}

func TestOpaque_FlattensOntoWhite(t *testing.T) {
	out := Opaque(Blank(2, 2))
	assert.Equal(t, color.RGBA{R: 255, G: 255, B: 255, A: 255}, out.RGBAAt(1, 1))
}

func TestSaveAndLoadPNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "module1_black.png")
	img := Blank(4, 4)
	img.SetNRGBA(1, 2, color.NRGBA{R: 10, G: 20, B: 30, A: 255})

	require.NoError(t, SavePNG(path, img))
	loaded, err := LoadPNG(path)
	require.NoError(t, err)
	assert.Equal(t, img.Pix, ToNRGBA(loaded).Pix)

	matches, err := filepath.Glob(filepath.Join(filepath.Dir(path), ".tmp-*"))
	require.NoError(t, err)
	assert.Empty(t, matches, "temporary files are cleaned up")
}

func TestFaceAndTruncate(t *testing.T) {
	face, err := Face(14)
	require.NoError(t, err)
	again, err := Face(14)
	require.NoError(t, err)
	assert.Same(t, face, again)

	_, err = Face(0)
	assert.Error(t, err)

	long := "module 1: OK  module 2: OK  module 3: OK"
	cut := Truncate(face, long, 60)
	assert.LessOrEqual(t, TextWidth(face, cut), 60)
	assert.True(t, len(cut) < len(long))
	assert.Equal(t, long[:len(cut)], cut)
	assert.Equal(t, "", Truncate(face, long, 0))
}

func TestDrawCentered(t *testing.T) {
	img := White(200, 40)
	DrawCentered(img, img.Bounds(), "Hi", FaceOrFallback(20), color.Black)

	minX, maxX := 200, -1
	for y := 0; y < 40; y++ {
		for x := 0; x < 200; x++ {
			if r, _, _, _ := img.At(x, y).RGBA(); r < 0x8000 {
				minX = min(minX, x)
				maxX = max(maxX, x)
			}
		}
	}
	require.GreaterOrEqual(t, maxX, minX, "text drawn")
	mid := (minX + maxX) / 2
	assert.InDelta(t, 100, mid, 6)
}
