package builtin

import (
	"context"

	"git.home.luguber.info/inful/inkframe/internal/bitmap"
	"git.home.luguber.info/inful/inkframe/internal/module"
)

// Blank reserves its region without drawing anything.
type Blank struct{}

// NewBlank is the factory for the blank module.
func NewBlank(module.Spec) (module.Module, error) { return Blank{}, nil }

func (Blank) Name() string { return "blank" }

func (Blank) Produce(_ context.Context, region bitmap.Region) (bitmap.Pair, error) {
	return bitmap.BlankPair(region), nil
}
