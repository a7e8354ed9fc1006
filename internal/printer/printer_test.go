package printer

import (
	"bytes"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func withoutColor(t *testing.T) {
	t.Helper()
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })
}

func TestPass(t *testing.T) {
	withoutColor(t)

	t.Run("clean pass", func(t *testing.T) {
		var buf bytes.Buffer
		New(&buf).Pass(PassSummary{
			PassID:      "0123456789abcdef",
			Info:        "module 1: OK  ",
			Refreshed:   true,
			Consecutive: 3,
			Duration:    1500 * time.Millisecond,
			Next:        20 * time.Minute,
		})
		out := buf.String()
		assert.Contains(t, out, "pass 01234567 ")
		assert.Contains(t, out, "✓ module 1: OK")
		assert.Contains(t, out, "panel refreshed")
		assert.Contains(t, out, "next in 20m0s")
		assert.Contains(t, out, "no errors since 3 display updates")
	})

	t.Run("failed module", func(t *testing.T) {
		var buf bytes.Buffer
		New(&buf).Pass(PassSummary{PassID: "abc", Info: "module 1: OK  module 2: Error!  ", Failed: []int{2}, Calibrated: true})
		out := buf.String()
		assert.Contains(t, out, "✗ module 1: OK  module 2: Error!")
		assert.Contains(t, out, "skipped (unchanged)")
		assert.Contains(t, out, "calibrated")
		assert.NotContains(t, out, "no errors since")
	})
}

func TestMessages(t *testing.T) {
	withoutColor(t)
	var buf bytes.Buffer
	p := New(&buf)
	p.Success("wrote %s", "settings.yaml")
	p.Warning("careful")
	p.Step("calibrating")
	p.Println("plain")
	assert.Equal(t, "✓ wrote settings.yaml\n⚠️  careful\n→ calibrating\nplain\n", buf.String())
}
