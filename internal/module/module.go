// Package module defines the content-module boundary, the registry binding
// module names to factories, and the runner that executes every configured
// module once per pass with failure isolation.
package module

import (
	"context"
	"fmt"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/inkframe/internal/bitmap"
	"git.home.luguber.info/inful/inkframe/internal/config"
)

// Module produces the bitmaps for one region of the canvas.
type Module interface {
	Name() string
	// Produce returns the primary and accent bitmaps for the region.
	// Bitmaps may be smaller than the region; they are centred by the compositor.
	Produce(ctx context.Context, region bitmap.Region) (bitmap.Pair, error)
}

// Spec is the immutable per-module configuration.
type Spec struct {
	Name     string
	Position int
	Region   bitmap.Region
	Config   map[string]any
}

// Instance binds a constructed module to its spec.
type Instance struct {
	Spec   Spec
	Module Module
}

// SpecsFromConfig converts configured modules into specs ordered by position.
func SpecsFromConfig(mods []config.ModuleConfig) []Spec {
	specs := make([]Spec, 0, len(mods))
	for _, m := range mods {
		cfg := m.Config
		if cfg == nil {
			cfg = map[string]any{}
		}
		specs = append(specs, Spec{
			Name:     m.Name,
			Position: m.Position,
			Region:   bitmap.Region{Width: m.Region.Width, Height: m.Region.Height},
			Config:   cfg,
		})
	}
	sort.SliceStable(specs, func(i, j int) bool { return specs[i].Position < specs[j].Position })
	return specs
}

// Decode maps the free-form module config onto out (a pointer to a struct
// with yaml tags).
func (s Spec) Decode(out any) error {
	if len(s.Config) == 0 {
		return nil
	}
	raw, err := yaml.Marshal(s.Config)
	if err != nil {
		return fmt.Errorf("encode %s config: %w", s.Name, err)
	}
	if err := yaml.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s config: %w", s.Name, err)
	}
	return nil
}

// Outcome is the typed result of running one module.
type Outcome struct {
	Spec     Spec
	Pair     bitmap.Pair
	Err      error
	Duration time.Duration
}

// OK reports whether the module produced its bitmaps.
func (o Outcome) OK() bool { return o.Err == nil }
