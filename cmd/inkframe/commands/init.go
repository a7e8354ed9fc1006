package commands

import (
	"git.home.luguber.info/inful/inkframe/internal/config"
	"git.home.luguber.info/inful/inkframe/internal/printer"
)

// InitCmd implements the 'init' command.
type InitCmd struct {
	Force bool `help:"Overwrite existing settings file"`
}

func (i *InitCmd) Run(g *Global, root *CLI) error {
	p := printer.New(g.out())
	p.Step("Writing settings to %s", root.Config)
	if err := config.Init(root.Config, i.Force); err != nil {
		return err
	}
	p.Success("initialized successfully")
	return nil
}
