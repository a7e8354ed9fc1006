package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	ferrors "git.home.luguber.info/inful/inkframe/internal/errors"
)

// CurrentVersion is the only settings schema version understood by Load.
const CurrentVersion = "1.0"

// Config represents the settings file driving the display daemon.
type Config struct {
	Version        string            `yaml:"version"`
	Display        DisplayConfig     `yaml:"display"`
	UpdateInterval int               `yaml:"update_interval"` // minutes, must divide 60
	InfoSection    InfoSectionConfig `yaml:"info_section"`
	Paths          PathsConfig       `yaml:"paths"`
	Logging        LoggingConfig     `yaml:"logging"`
	Metrics        MetricsConfig     `yaml:"metrics"`
	Modules        []ModuleConfig    `yaml:"modules"`
}

// DisplayConfig describes the physical panel and how it is refreshed.
type DisplayConfig struct {
	Model            string     `yaml:"model"`
	Driver           DriverKind `yaml:"driver"`
	Render           bool       `yaml:"render"`
	Orientation      int        `yaml:"orientation"` // 0 or 180
	ImageHash        bool       `yaml:"image_hash"`  // skip refreshes when planes are unchanged
	CalibrationHours []int      `yaml:"calibration_hours"`
	Threshold        int        `yaml:"threshold"` // two-level reduction threshold

	renderSpecified    bool
	thresholdSpecified bool
}

// UnmarshalYAML records which optional keys were present so defaults never
// override an explicit false or zero.
func (d *DisplayConfig) UnmarshalYAML(value *yaml.Node) error {
	type plain DisplayConfig
	var p plain
	if err := value.Decode(&p); err != nil {
		return err
	}
	*d = DisplayConfig(p)
	for i := 0; i+1 < len(value.Content); i += 2 {
		switch value.Content[i].Value {
		case "render":
			d.renderSpecified = true
		case "threshold":
			d.thresholdSpecified = true
		}
	}
	return nil
}

// DriverKind selects the panel driver implementation.
type DriverKind string

const (
	DriverSimulator DriverKind = "simulator"
	DriverNone      DriverKind = "none"
)

// InfoSectionConfig configures the status strip at the bottom of the canvas.
type InfoSectionConfig struct {
	Enabled  bool    `yaml:"enabled"`
	Height   int     `yaml:"height"`
	FontSize float64 `yaml:"font_size"`
}

// PathsConfig holds resolved filesystem locations.
type PathsConfig struct {
	ImageDir string `yaml:"image_dir"`
	LogDir   string `yaml:"log_dir"`
}

// LoggingConfig represents logging configuration.
type LoggingConfig struct {
	Level  LogLevel  `yaml:"level"`
	Format LogFormat `yaml:"format"`
}

// MetricsConfig configures the Prometheus textfile export.
type MetricsConfig struct {
	Enabled       bool   `yaml:"enabled"`
	Textfile      string `yaml:"textfile"`
	FlushInterval string `yaml:"flush_interval"`
}

// Flush returns the parsed flush interval (defaults are applied before this is used).
func (m MetricsConfig) Flush() time.Duration {
	d, err := time.ParseDuration(m.FlushInterval)
	if err != nil || d <= 0 {
		return 30 * time.Second
	}
	return d
}

// ModuleConfig declares one content module and its reserved region.
type ModuleConfig struct {
	Name     string         `yaml:"name"`
	Position int            `yaml:"position"`
	Region   RegionConfig   `yaml:"region"`
	Config   map[string]any `yaml:"config,omitempty"`
}

// RegionConfig is the fixed slot reserved for a module.
type RegionConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// Load loads, normalizes, defaults and validates a settings file.
func Load(configPath string) (*Config, error) {
	if err := loadEnvFiles(); err != nil {
		// Not fatal; most deployments carry no .env
		fmt.Fprintf(os.Stderr, "Note: .env file not found or couldn't be loaded: %v\n", err)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, ferrors.ConfigNotFound(configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, ferrors.ConfigInvalid(configPath, err)
	}
	return Parse(data, configPath)
}

// Parse decodes settings from raw YAML. source is only used for error context.
func Parse(data []byte, source string) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, ferrors.ConfigInvalid(source, err)
	}

	if cfg.Version != CurrentVersion {
		return nil, ferrors.ValidationFailed("version",
			fmt.Sprintf("unsupported configuration version %q (expected %s)", cfg.Version, CurrentVersion))
	}

	if err := applyEnvOverrides(&cfg); err != nil {
		return nil, ferrors.ConfigInvalid(source, err)
	}

	for _, w := range normalizeConfig(&cfg) {
		fmt.Fprintf(os.Stderr, "config normalization: %s\n", w)
	}

	applyDefaults(&cfg)

	if err := ValidateConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Init writes an example settings file.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return ferrors.ValidationFailed("path",
			fmt.Sprintf("configuration file already exists: %s (use --force to overwrite)", configPath))
	}

	example := Config{
		Version: CurrentVersion,
		Display: DisplayConfig{
			Model:            "epd_7_in_5_v3_colour",
			Driver:           DriverSimulator,
			Render:           true,
			ImageHash:        true,
			CalibrationHours: []int{0, 12, 18},
			Threshold:        DefaultThreshold,
		},
		UpdateInterval: 20,
		InfoSection:    InfoSectionConfig{Enabled: true, Height: 70, FontSize: 14},
		Paths:          PathsConfig{ImageDir: "./images", LogDir: "./logs"},
		Logging:        LoggingConfig{Level: LogLevelInfo, Format: LogFormatText},
		Metrics:        MetricsConfig{Enabled: false, Textfile: "./metrics/inkframe.prom", FlushInterval: "30s"},
		Modules: []ModuleConfig{
			{Name: "clock", Position: 1, Region: RegionConfig{Width: 528, Height: 120}},
			{
				Name: "text", Position: 2, Region: RegionConfig{Width: 528, Height: 500},
				Config: map[string]any{"lines": []string{"Hello from inkframe"}, "font_size": 32},
			},
			{Name: "blank", Position: 3, Region: RegionConfig{Width: 528, Height: 190}},
		},
	}

	data, err := yaml.Marshal(&example)
	if err != nil {
		return ferrors.InternalError("marshal example configuration", err)
	}
	header := "# inkframe settings\n# Regions are stacked top to bottom in position order.\n"
	if err := os.WriteFile(configPath, append([]byte(header), data...), 0o600); err != nil {
		return ferrors.FilesystemError("write", configPath, err)
	}
	return nil
}
