package builtin

import (
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"

	xdraw "golang.org/x/image/draw"

	"git.home.luguber.info/inful/inkframe/internal/bitmap"
	"git.home.luguber.info/inful/inkframe/internal/module"
)

// ImageConfig configures the image module.
type ImageConfig struct {
	Path string `yaml:"path"`
	Fit  bool   `yaml:"fit"`
}

// Image shows a PNG or JPEG file on the primary plane.
type Image struct {
	cfg ImageConfig
}

// NewImage is the factory for the image module.
func NewImage(spec module.Spec) (module.Module, error) {
	var cfg ImageConfig
	if err := spec.Decode(&cfg); err != nil {
		return nil, err
	}
	if cfg.Path == "" {
		return nil, fmt.Errorf("image module requires a path")
	}
	return &Image{cfg: cfg}, nil
}

func (m *Image) Name() string { return "image" }

// Produce decodes the file on every pass so that replaced files are picked up.
func (m *Image) Produce(ctx context.Context, region bitmap.Region) (bitmap.Pair, error) {
	if err := ctx.Err(); err != nil {
		return bitmap.Pair{}, err
	}
	f, err := os.Open(m.cfg.Path)
	if err != nil {
		return bitmap.Pair{}, fmt.Errorf("open image: %w", err)
	}
	defer func() { _ = f.Close() }()

	src, _, err := image.Decode(f)
	if err != nil {
		return bitmap.Pair{}, fmt.Errorf("decode %s: %w", m.cfg.Path, err)
	}

	primary := bitmap.ToNRGBA(src)
	if m.cfg.Fit {
		primary = fit(src, region)
	}
	return bitmap.Pair{Primary: primary, Accent: bitmap.Blank(region.Width, region.Height)}, nil
}

// fit scales src to the largest size inside region keeping its aspect ratio.
func fit(src image.Image, region bitmap.Region) *image.NRGBA {
	b := src.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 || region.Width <= 0 || region.Height <= 0 {
		return bitmap.Blank(region.Width, region.Height)
	}
	w, h := region.Width, b.Dy()*region.Width/b.Dx()
	if h > region.Height {
		w, h = b.Dx()*region.Height/b.Dy(), region.Height
	}
	w, h = max(w, 1), max(h, 1)
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, b, xdraw.Src, nil)
	return dst
}
