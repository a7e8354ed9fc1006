package config

// DefaultThreshold is the two-level reduction threshold applied to the first two channels.
const DefaultThreshold = 220

// applyDefaults fills every optional field left empty by the settings file.
func applyDefaults(cfg *Config) {
	if cfg.Display.Driver == "" {
		cfg.Display.Driver = DriverSimulator
	}
	if !cfg.Display.renderSpecified {
		cfg.Display.Render = true
	}
	if !cfg.Display.thresholdSpecified {
		cfg.Display.Threshold = DefaultThreshold
	}
	if cfg.Display.CalibrationHours == nil {
		cfg.Display.CalibrationHours = []int{0, 12, 18}
	}

	if cfg.UpdateInterval == 0 {
		cfg.UpdateInterval = 60
	}

	if cfg.InfoSection.Enabled {
		if cfg.InfoSection.Height <= 0 {
			cfg.InfoSection.Height = 70
		}
		if cfg.InfoSection.FontSize <= 0 {
			cfg.InfoSection.FontSize = 14
		}
	}

	if cfg.Paths.ImageDir == "" {
		cfg.Paths.ImageDir = "./images"
	}
	if cfg.Paths.LogDir == "" {
		cfg.Paths.LogDir = "./logs"
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = LogLevelInfo
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = LogFormatText
	}

	if cfg.Metrics.Textfile == "" {
		cfg.Metrics.Textfile = "./metrics/inkframe.prom"
	}
	if cfg.Metrics.FlushInterval == "" {
		cfg.Metrics.FlushInterval = "30s"
	}

	for i := range cfg.Modules {
		if cfg.Modules[i].Config == nil {
			cfg.Modules[i].Config = map[string]any{}
		}
	}
}
