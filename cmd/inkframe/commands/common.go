// Package commands implements the inkframe subcommands.
package commands

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/inkframe/internal/config"
	"git.home.luguber.info/inful/inkframe/internal/daemon"
	"git.home.luguber.info/inful/inkframe/internal/logging"
	"git.home.luguber.info/inful/inkframe/internal/printer"
)

// Global carries state shared by subcommands.
type Global struct {
	// Out receives command output; defaults to os.Stdout.
	Out io.Writer
}

func (g *Global) out() io.Writer {
	if g == nil || g.Out == nil {
		return os.Stdout
	}
	return g.Out
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Settings file path" default:"settings.yaml" type:"path"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Run       RunCmd       `cmd:"" default:"1" help:"Update the display on every interval boundary until stopped"`
	Once      OnceCmd      `cmd:"" help:"Run a single pass and exit"`
	Calibrate CalibrateCmd `cmd:"" help:"Calibrate the panel, then run one pass"`
	Init      InitCmd      `cmd:"" help:"Write an example settings file"`
	Modules   ModulesCmd   `cmd:"" help:"List available modules and panel models"`
}

// AfterApply runs after flag parsing; installs a console logger until the
// settings file provides the full logging setup.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	logging.Console(c.Verbose)
	return nil
}

// session is a loaded configuration with its logger and daemon.
type session struct {
	cfg    *config.Config
	daemon *daemon.Daemon
	closer io.Closer
}

func (s *session) Close() {
	if s.daemon != nil {
		if err := s.daemon.Close(); err != nil {
			slog.Warn("Failed to clean up workspace", "error", err)
		}
	}
	if s.closer != nil {
		_ = s.closer.Close()
	}
}

func openSession(g *Global, root *CLI, scratch bool) (*session, error) {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return nil, err
	}
	_, closer, err := logging.Setup(cfg, logging.Options{Verbose: root.Verbose})
	if err != nil {
		return nil, err
	}
	s := &session{cfg: cfg, closer: closer}
	d, err := daemon.New(cfg, daemon.Options{
		Printer: printer.New(g.out()),
		Scratch: scratch,
	})
	if err != nil {
		s.Close()
		return nil, err
	}
	s.daemon = d
	return s, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}
