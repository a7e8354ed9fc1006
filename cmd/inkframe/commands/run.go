package commands

import "log/slog"

// RunCmd implements the 'run' command.
type RunCmd struct{}

func (r *RunCmd) Run(g *Global, root *CLI) error {
	s, err := openSession(g, root, false)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx, cancel := signalContext()
	defer cancel()

	slog.Info("Starting inkframe", "config", root.Config, "interval_minutes", s.cfg.UpdateInterval)
	if err := s.daemon.Run(ctx); err != nil {
		return err
	}
	slog.Info("inkframe stopped")
	return nil
}

// OnceCmd implements the 'once' command.
type OnceCmd struct {
	Scratch bool `help:"Write artifacts to a temporary workspace that is removed afterwards"`
}

func (o *OnceCmd) Run(g *Global, root *CLI) error {
	s, err := openSession(g, root, o.Scratch)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx, cancel := signalContext()
	defer cancel()
	return s.daemon.RunOnce(ctx)
}

// CalibrateCmd implements the 'calibrate' command.
type CalibrateCmd struct{}

func (c *CalibrateCmd) Run(g *Global, root *CLI) error {
	s, err := openSession(g, root, false)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx, cancel := signalContext()
	defer cancel()
	return s.daemon.Calibrate(ctx)
}
