package config

import (
	"fmt"
	"sort"
	"time"

	ferrors "git.home.luguber.info/inful/inkframe/internal/errors"
)

// ValidateConfig validates the complete configuration structure.
// Module names and panel models are resolved later against the module
// registry and panel catalog, still before the update loop starts.
func ValidateConfig(cfg *Config) error {
	validator := newConfigurationValidator(cfg)
	return validator.validate()
}

// configurationValidator coordinates validation across configuration domains.
type configurationValidator struct {
	config *Config
}

func newConfigurationValidator(config *Config) *configurationValidator {
	return &configurationValidator{config: config}
}

func (cv *configurationValidator) validate() error {
	if err := cv.validateDisplay(); err != nil {
		return err
	}
	if err := cv.validateInterval(); err != nil {
		return err
	}
	if err := cv.validateModules(); err != nil {
		return err
	}
	if err := cv.validateInfoSection(); err != nil {
		return err
	}
	return cv.validateMetrics()
}

func (cv *configurationValidator) validateDisplay() error {
	d := cv.config.Display
	switch d.Driver {
	case DriverSimulator, DriverNone:
	default:
		return ferrors.ValidationFailed("display.driver", fmt.Sprintf("unsupported driver %q", d.Driver))
	}
	if d.Render && d.Model == "" {
		return ferrors.ValidationFailed("display.model", "a panel model is required when render is enabled")
	}
	if d.Orientation != 0 && d.Orientation != 180 {
		return ferrors.ValidationFailed("display.orientation", fmt.Sprintf("must be 0 or 180, got %d", d.Orientation))
	}
	for _, h := range d.CalibrationHours {
		if h < 0 || h > 23 {
			return ferrors.ValidationFailed("display.calibration_hours", fmt.Sprintf("hour %d outside 0..23", h))
		}
	}
	if d.Threshold < 0 || d.Threshold > 255 {
		return ferrors.ValidationFailed("display.threshold", fmt.Sprintf("must be within 0..255, got %d", d.Threshold))
	}
	return nil
}

func (cv *configurationValidator) validateInterval() error {
	iv := cv.config.UpdateInterval
	if iv < 1 || iv > 60 || 60%iv != 0 {
		return ferrors.ValidationFailed("update_interval", fmt.Sprintf("must be a divisor of 60 minutes, got %d", iv))
	}
	return nil
}

// validateModules requires unique positions forming the sequence 1..N.
func (cv *configurationValidator) validateModules() error {
	mods := cv.config.Modules
	if len(mods) == 0 {
		return ferrors.ValidationFailed("modules", "at least one module must be configured")
	}
	positions := make([]int, 0, len(mods))
	seen := make(map[int]string, len(mods))
	for _, m := range mods {
		if m.Name == "" {
			return ferrors.ValidationFailed("modules.name", fmt.Sprintf("module at position %d has no name", m.Position))
		}
		if prev, dup := seen[m.Position]; dup {
			return ferrors.ValidationFailed("modules.position",
				fmt.Sprintf("position %d used by both %s and %s", m.Position, prev, m.Name))
		}
		seen[m.Position] = m.Name
		positions = append(positions, m.Position)
		if m.Region.Width <= 0 || m.Region.Height <= 0 {
			return ferrors.ValidationFailed("modules.region",
				fmt.Sprintf("module %s at position %d needs a positive region, got %dx%d",
					m.Name, m.Position, m.Region.Width, m.Region.Height))
		}
	}
	sort.Ints(positions)
	for i, p := range positions {
		if p != i+1 {
			return ferrors.ValidationFailed("modules.position",
				fmt.Sprintf("positions must run 1..%d without gaps, found %d", len(positions), p))
		}
	}
	return nil
}

func (cv *configurationValidator) validateInfoSection() error {
	is := cv.config.InfoSection
	if !is.Enabled {
		return nil
	}
	if is.Height <= 0 {
		return ferrors.ValidationFailed("info_section.height", "must be positive")
	}
	return nil
}

func (cv *configurationValidator) validateMetrics() error {
	if !cv.config.Metrics.Enabled {
		return nil
	}
	d, err := time.ParseDuration(cv.config.Metrics.FlushInterval)
	if err != nil || d <= 0 {
		return ferrors.ValidationFailed("metrics.flush_interval",
			fmt.Sprintf("invalid duration %q", cv.config.Metrics.FlushInterval))
	}
	return nil
}
