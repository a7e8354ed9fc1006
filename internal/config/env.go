package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// envFiles are tried in order; the first one that loads wins.
var envFiles = []string{".env", ".env.local"}

// loadEnvFiles loads environment variables from .env/.env.local files.
// Existing process environment variables are not overwritten.
func loadEnvFiles() error {
	for _, envPath := range envFiles {
		if _, err := os.Stat(envPath); err != nil {
			continue
		}
		if err := godotenv.Load(envPath); err != nil {
			return fmt.Errorf("load %s: %w", envPath, err)
		}
		fmt.Fprintf(os.Stderr, "Loaded environment variables from %s\n", envPath)
		return nil
	}
	return errors.New("no .env file found")
}

// envOverrides are INKFRAME_* variables that take precedence over the file.
type envOverrides struct {
	Model     string `env:"MODEL"`
	Driver    string `env:"DRIVER"`
	Render    *bool  `env:"RENDER"`
	ImageHash *bool  `env:"IMAGE_HASH"`
	ImageDir  string `env:"IMAGE_DIR"`
	LogDir    string `env:"LOG_DIR"`
	LogLevel  string `env:"LOG_LEVEL"`
	Interval  int    `env:"UPDATE_INTERVAL"`
}

func applyEnvOverrides(cfg *Config) error {
	var o envOverrides
	if err := env.ParseWithOptions(&o, env.Options{Prefix: "INKFRAME_"}); err != nil {
		return fmt.Errorf("parse environment overrides: %w", err)
	}
	if o.Model != "" {
		cfg.Display.Model = o.Model
	}
	if o.Driver != "" {
		cfg.Display.Driver = DriverKind(o.Driver)
	}
	if o.Render != nil {
		cfg.Display.Render = *o.Render
		cfg.Display.renderSpecified = true
	}
	if o.ImageHash != nil {
		cfg.Display.ImageHash = *o.ImageHash
	}
	if o.ImageDir != "" {
		cfg.Paths.ImageDir = o.ImageDir
	}
	if o.LogDir != "" {
		cfg.Paths.LogDir = o.LogDir
	}
	if o.LogLevel != "" {
		cfg.Logging.Level = LogLevel(o.LogLevel)
	}
	if o.Interval != 0 {
		cfg.UpdateInterval = o.Interval
	}
	return nil
}
