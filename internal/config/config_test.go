package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/inkframe/internal/errors"
)

const minimalSettings = `version: "1.0"
display:
  model: epd_7_in_5_v2
modules:
  - name: clock
    position: 1
    region: {width: 480, height: 100}
`

func writeSettings(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_AppliesDefaults(t *testing.T) {
	cfg, err := Load(writeSettings(t, minimalSettings))
	require.NoError(t, err)

	assert.True(t, cfg.Display.Render, "render defaults to true")
	assert.Equal(t, DriverSimulator, cfg.Display.Driver)
	assert.Equal(t, DefaultThreshold, cfg.Display.Threshold)
	assert.Equal(t, []int{0, 12, 18}, cfg.Display.CalibrationHours)
	assert.Equal(t, 60, cfg.UpdateInterval)
	assert.Equal(t, "./images", cfg.Paths.ImageDir)
	assert.Equal(t, LogLevelInfo, cfg.Logging.Level)
	assert.Equal(t, LogFormatText, cfg.Logging.Format)
	assert.NotNil(t, cfg.Modules[0].Config)
	assert.False(t, cfg.InfoSection.Enabled)
}

func TestLoad_ExplicitFalseAndZeroSurviveDefaults(t *testing.T) {
	content := `version: "1.0"
display:
  render: false
  threshold: 0
  calibration_hours: []
modules:
  - name: text
    position: 1
    region: {width: 10, height: 10}
`
	cfg, err := Load(writeSettings(t, content))
	require.NoError(t, err)
	assert.False(t, cfg.Display.Render)
	assert.Equal(t, 0, cfg.Display.Threshold)
	assert.Empty(t, cfg.Display.CalibrationHours)
}

func TestLoad_FullDocument(t *testing.T) {
	content := `version: "1.0"
display:
  model: EPD_7_IN_5_V3_COLOUR
  orientation: 180
  image_hash: true
  calibration_hours: [18, 0, 18]
update_interval: 20
info_section:
  enabled: true
logging:
  level: DEBUG
  format: JSON
metrics:
  enabled: true
  flush_interval: 1m
modules:
  - name: Clock
    position: 2
    region: {width: 528, height: 100}
  - name: text
    position: 1
    region: {width: 528, height: 200}
    config:
      lines: ["a", "b"]
`
	cfg, err := Load(writeSettings(t, content))
	require.NoError(t, err)

	assert.Equal(t, "epd_7_in_5_v3_colour", cfg.Display.Model)
	assert.Equal(t, 180, cfg.Display.Orientation)
	assert.True(t, cfg.Display.ImageHash)
	assert.Equal(t, []int{0, 18}, cfg.Display.CalibrationHours)
	assert.Equal(t, 20, cfg.UpdateInterval)
	assert.Equal(t, 70, cfg.InfoSection.Height)
	assert.Equal(t, 14.0, cfg.InfoSection.FontSize)
	assert.Equal(t, LogLevelDebug, cfg.Logging.Level)
	assert.Equal(t, LogFormatJSON, cfg.Logging.Format)
	assert.Equal(t, "clock", cfg.Modules[0].Name)
	assert.Equal(t, []any{"a", "b"}, cfg.Modules[1].Config["lines"])
	assert.Equal(t, "1m0s", cfg.Metrics.Flush().String())
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("INKFRAME_RENDER", "false")
	t.Setenv("INKFRAME_IMAGE_DIR", "/var/lib/inkframe")
	t.Setenv("INKFRAME_UPDATE_INTERVAL", "15")

	cfg, err := Load(writeSettings(t, minimalSettings))
	require.NoError(t, err)
	assert.False(t, cfg.Display.Render)
	assert.Equal(t, "/var/lib/inkframe", cfg.Paths.ImageDir)
	assert.Equal(t, 15, cfg.UpdateInterval)
}

func TestLoad_ExpandsVariables(t *testing.T) {
	t.Setenv("PANEL_MODEL", "epd_4_in_2")
	content := `version: "1.0"
display:
  model: ${PANEL_MODEL}
modules:
  - name: clock
    position: 1
    region: {width: 300, height: 400}
`
	cfg, err := Load(writeSettings(t, content))
	require.NoError(t, err)
	assert.Equal(t, "epd_4_in_2", cfg.Display.Model)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.True(t, ferrors.IsCategory(err, ferrors.CategoryConfig))

	_, err = Load(writeSettings(t, "version: [unclosed"))
	require.Error(t, err)
	assert.True(t, ferrors.IsCategory(err, ferrors.CategoryConfig))

	_, err = Load(writeSettings(t, "version: \"2.0\"\n"))
	require.Error(t, err)
	assert.True(t, ferrors.IsCategory(err, ferrors.CategoryValidation))
}

func TestInit_WritesLoadableExample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, Init(path, false))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, cfg.Modules, 3)
	assert.Equal(t, 20, cfg.UpdateInterval)

	err = Init(path, false)
	require.Error(t, err, "existing file must not be overwritten without force")
	require.NoError(t, Init(path, true))
}
