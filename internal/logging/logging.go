// Package logging builds the process logger: a terse console handler fanned
// out to a rotating log file that keeps the detailed history.
package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"

	"git.home.luguber.info/inful/inkframe/internal/config"
)

const (
	logFileName   = "inkframe.log"
	maxLogSizeMB  = 2
	maxLogBackups = 5
)

// Options controls logger construction.
type Options struct {
	// Verbose lowers the console threshold to debug.
	Verbose bool
	// Console receives console output; defaults to os.Stderr.
	Console io.Writer
}

// Setup creates the process logger from the logging and paths sections and
// installs it as slog's default. The returned closer flushes the log file.
func Setup(cfg *config.Config, opts Options) (*slog.Logger, io.Closer, error) {
	console := opts.Console
	if console == nil {
		console = os.Stderr
	}
	consoleLevel := slog.LevelError
	if opts.Verbose {
		consoleLevel = slog.LevelDebug
	}

	if err := os.MkdirAll(cfg.Paths.LogDir, 0o750); err != nil {
		return nil, nil, err
	}
	file := &lumberjack.Logger{
		Filename:   filepath.Join(cfg.Paths.LogDir, logFileName),
		MaxSize:    maxLogSizeMB,
		MaxBackups: maxLogBackups,
	}

	fileLevel := cfg.Logging.Level.SlogLevel()
	if opts.Verbose {
		fileLevel = slog.LevelDebug
	}

	logger := slog.New(NewFanout(
		slog.NewTextHandler(console, &slog.HandlerOptions{Level: consoleLevel}),
		newHandler(file, cfg.Logging.Format, fileLevel),
	))
	slog.SetDefault(logger)
	return logger, file, nil
}

// Console installs a console-only default logger, used before settings are loaded.
func Console(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger
}

func newHandler(w io.Writer, format config.LogFormat, level slog.Level) slog.Handler {
	opts := &slog.HandlerOptions{Level: level}
	if format == config.LogFormatJSON {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}
