package main

import (
	"log/slog"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/inkframe/cmd/inkframe/commands"
	ferrors "git.home.luguber.info/inful/inkframe/internal/errors"
	"git.home.luguber.info/inful/inkframe/internal/version"
)

func main() {
	cli := &commands.CLI{}
	parser := kong.Parse(cli,
		kong.Name("inkframe"),
		kong.Description("Drive an e-paper panel from a stack of content modules."),
		kong.Vars{"version": version.String()},
		kong.UsageOnError(),
	)
	err := parser.Run(&commands.Global{}, cli)
	ferrors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).HandleError(err)
}
