package panel

import (
	"fmt"
	"sort"
	"strings"

	ferrors "git.home.luguber.info/inful/inkframe/internal/errors"
)

// Model describes a supported panel in its native (landscape) orientation.
type Model struct {
	Name   string
	Width  int
	Height int
	Colour bool
}

// catalog maps model identifiers to their native resolution.
var catalog = map[string][2]int{
	"epd_4_in_2":           {400, 300},
	"epd_4_in_2_colour":    {400, 300},
	"epd_5_in_83":          {600, 448},
	"epd_5_in_83_colour":   {600, 448},
	"epd_7_in_5":           {640, 384},
	"epd_7_in_5_colour":    {640, 384},
	"epd_7_in_5_v2":        {800, 480},
	"epd_7_in_5_v2_colour": {800, 480},
	"epd_7_in_5_v3":        {880, 528},
	"epd_7_in_5_v3_colour": {880, 528},
	"9_in_7":               {1200, 825},
	"10_in_3":              {1872, 1404},
}

// Lookup resolves a model identifier.
func Lookup(name string) (Model, error) {
	size, ok := catalog[name]
	if !ok {
		return Model{}, ferrors.ValidationFailed("display.model",
			fmt.Sprintf("unknown panel model %q (known: %s)", name, strings.Join(Models(), ", ")))
	}
	return Model{Name: name, Width: size[0], Height: size[1], Colour: SupportsColour(name)}, nil
}

// NativeSize returns the panel resolution as reported by the driver.
func NativeSize(name string) (width, height int, err error) {
	m, err := Lookup(name)
	if err != nil {
		return 0, 0, err
	}
	return m.Width, m.Height, nil
}

// SupportsColour reports whether the panel renders an accent colour.
func SupportsColour(name string) bool {
	return strings.Contains(name, "colour")
}

// CanvasSize returns the operating canvas: panels are mounted rotated by
// 90 degrees, so the native width and height swap.
func (m Model) CanvasSize() (width, height int) {
	return m.Height, m.Width
}

// Models lists known model identifiers in sorted order.
func Models() []string {
	names := make([]string, 0, len(catalog))
	for n := range catalog {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
