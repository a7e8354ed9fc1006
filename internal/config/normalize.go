package config

import (
	"fmt"
	"sort"
	"strings"
)

// normalizeConfig case-folds enumerations and tidies list values.
// It returns human-readable warnings for values that were coerced.
func normalizeConfig(cfg *Config) []string {
	var warnings []string

	if raw := string(cfg.Logging.Level); raw != "" {
		if _, ok := logLevels[strings.ToLower(strings.TrimSpace(raw))]; !ok {
			warnings = append(warnings, fmt.Sprintf("logging.level %q not recognised, using info", raw))
		}
		cfg.Logging.Level = NormalizeLogLevel(raw)
	}
	if cfg.Logging.Format != "" {
		cfg.Logging.Format = NormalizeLogFormat(string(cfg.Logging.Format))
	}

	cfg.Display.Model = strings.ToLower(strings.TrimSpace(cfg.Display.Model))
	cfg.Display.Driver = DriverKind(strings.ToLower(strings.TrimSpace(string(cfg.Display.Driver))))

	if len(cfg.Display.CalibrationHours) > 0 {
		seen := make(map[int]bool, len(cfg.Display.CalibrationHours))
		hours := cfg.Display.CalibrationHours[:0]
		for _, h := range cfg.Display.CalibrationHours {
			if seen[h] {
				warnings = append(warnings, fmt.Sprintf("display.calibration_hours: duplicate hour %d dropped", h))
				continue
			}
			seen[h] = true
			hours = append(hours, h)
		}
		sort.Ints(hours)
		cfg.Display.CalibrationHours = hours
	}

	for i := range cfg.Modules {
		cfg.Modules[i].Name = strings.ToLower(strings.TrimSpace(cfg.Modules[i].Name))
	}
	return warnings
}
