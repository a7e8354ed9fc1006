package commands

import (
	"fmt"

	"git.home.luguber.info/inful/inkframe/internal/module/builtin"
	"git.home.luguber.info/inful/inkframe/internal/panel"
)

// ModulesCmd implements the 'modules' command.
type ModulesCmd struct{}

func (m *ModulesCmd) Run(g *Global, _ *CLI) error {
	out := g.out()
	fmt.Fprintln(out, "Modules:")
	for _, name := range builtin.Registry().Names() {
		fmt.Fprintf(out, "  %s\n", name)
	}
	fmt.Fprintln(out, "Panel models:")
	for _, name := range panel.Models() {
		w, h, _ := panel.NativeSize(name)
		fmt.Fprintf(out, "  %-22s %4dx%-4d colour=%t\n", name, w, h, panel.SupportsColour(name))
	}
	return nil
}
