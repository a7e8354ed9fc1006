// Package printer writes the human-facing console output of inkframe:
// one colourised summary line per pass plus command feedback.
package printer

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
)

var (
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow)
	red    = color.New(color.FgRed, color.Bold)
	cyan   = color.New(color.FgCyan)
)

// PassSummary is what the console shows after a pass.
type PassSummary struct {
	PassID      string
	Info        string
	Failed      []int
	Refreshed   bool
	Calibrated  bool
	Consecutive int
	Duration    time.Duration
	Next        time.Duration
}

// Printer writes to a fixed destination.
type Printer struct {
	out io.Writer
}

// New returns a printer writing to out (stdout when nil).
func New(out io.Writer) *Printer {
	if out == nil {
		out = os.Stdout
	}
	return &Printer{out: out}
}

// Pass prints a pass summary.
func (p *Printer) Pass(s PassSummary) {
	id := s.PassID
	if len(id) > 8 {
		id = id[:8]
	}
	cyan.Fprintf(p.out, "→ pass %s ", id)
	if len(s.Failed) == 0 {
		green.Fprintf(p.out, "✓ %s", strings.TrimSpace(s.Info))
	} else {
		red.Fprintf(p.out, "✗ %s", strings.TrimSpace(s.Info))
	}

	action := "skipped (unchanged)"
	if s.Refreshed {
		action = "refreshed"
	}
	fmt.Fprintf(p.out, " | panel %s", action)
	if s.Calibrated {
		yellow.Fprint(p.out, " | calibrated")
	}
	fmt.Fprintf(p.out, " | took %s", s.Duration.Round(time.Millisecond))
	if s.Next > 0 {
		fmt.Fprintf(p.out, " | next in %s", s.Next.Round(time.Second))
	}
	fmt.Fprintln(p.out)

	if len(s.Failed) == 0 {
		fmt.Fprintf(p.out, "  no errors since %d display updates\n", s.Consecutive)
	}
}

// Success prints a success message in green with a checkmark prefix.
func (p *Printer) Success(format string, a ...any) {
	green.Fprintf(p.out, "✓ %s\n", fmt.Sprintf(format, a...))
}

// Warning prints a warning message in yellow.
func (p *Printer) Warning(format string, a ...any) {
	yellow.Fprintf(p.out, "⚠️  %s\n", fmt.Sprintf(format, a...))
}

// Step prints a step message with emphasis.
func (p *Printer) Step(format string, a ...any) {
	cyan.Fprintf(p.out, "→ %s\n", fmt.Sprintf(format, a...))
}

// Println prints a plain message.
func (p *Printer) Println(a ...any) {
	fmt.Fprintln(p.out, a...)
}
