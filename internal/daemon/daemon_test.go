package daemon

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/inkframe/internal/bitmap"
	"git.home.luguber.info/inful/inkframe/internal/config"
	ferrors "git.home.luguber.info/inful/inkframe/internal/errors"
	"git.home.luguber.info/inful/inkframe/internal/module"
	"git.home.luguber.info/inful/inkframe/internal/panel"
	"git.home.luguber.info/inful/inkframe/internal/printer"
)

type recordingDriver struct {
	mu           sync.Mutex
	primaries    []image.Image
	accents      []image.Image
	calibrations int
	renderErr    error
}

func (r *recordingDriver) Render(_ context.Context, primary, accent image.Image) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.renderErr != nil {
		return r.renderErr
	}
	r.primaries = append(r.primaries, primary)
	r.accents = append(r.accents, accent)
	return nil
}

func (r *recordingDriver) Calibrate(context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calibrations++
	return nil
}

func (r *recordingDriver) renders() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.primaries)
}

type solidModule struct {
	plane string
	fill  *color.NRGBA
	fail  bool
}

func (s *solidModule) Name() string { return "solid" }
func (s *solidModule) Produce(_ context.Context, r bitmap.Region) (bitmap.Pair, error) {
	if s.fail {
		return bitmap.Pair{}, errors.New("upstream unavailable")
	}
	fill := color.NRGBA{A: 0xff}
	if s.fill != nil {
		fill = *s.fill
	}
	img := image.NewNRGBA(r.Rect())
	for y := 0; y < r.Height; y++ {
		for x := 0; x < r.Width; x++ {
			img.SetNRGBA(x, y, fill)
		}
	}
	if s.plane == bitmap.PlaneColour {
		return bitmap.Pair{Accent: img}, nil
	}
	return bitmap.Pair{Primary: img}, nil
}

func testRegistry() *module.Registry {
	reg := module.NewRegistry()
	reg.MustRegister("solid", func(module.Spec) (module.Module, error) { return &solidModule{}, nil })
	reg.MustRegister("accent", func(module.Spec) (module.Module, error) {
		return &solidModule{plane: bitmap.PlaneColour}, nil
	})
	reg.MustRegister("grey", func(module.Spec) (module.Module, error) {
		return &solidModule{plane: bitmap.PlaneColour, fill: &color.NRGBA{R: 150, G: 150, B: 150, A: 0xff}}, nil
	})
	reg.MustRegister("broken", func(module.Spec) (module.Module, error) { return &solidModule{fail: true}, nil })
	return reg
}

// nativePortrait is a 480x800 panel, operated as an 800x480 canvas.
var nativePortrait = &panel.Model{Name: "test_panel", Width: 480, Height: 800}

func testConfig(t *testing.T, modules ...config.ModuleConfig) *config.Config {
	t.Helper()
	if len(modules) == 0 {
		modules = []config.ModuleConfig{
			{Name: "solid", Position: 1, Region: config.RegionConfig{Width: 800, Height: 100}},
			{Name: "broken", Position: 2, Region: config.RegionConfig{Width: 800, Height: 50}},
			{Name: "solid", Position: 3, Region: config.RegionConfig{Width: 800, Height: 80}},
		}
	}
	return &config.Config{
		Version: config.CurrentVersion,
		Display: config.DisplayConfig{
			Driver:           config.DriverSimulator,
			Render:           true,
			ImageHash:        true,
			CalibrationHours: []int{3},
			Threshold:        220,
		},
		UpdateInterval: 20,
		Paths:          config.PathsConfig{ImageDir: t.TempDir()},
		Modules:        modules,
	}
}

func newTestDaemon(t *testing.T, cfg *config.Config, drv panel.Driver, clock clockwork.Clock) *Daemon {
	t.Helper()
	d, err := New(cfg, Options{Registry: testRegistry(), Driver: drv, Model: nativePortrait, Clock: clock})
	require.NoError(t, err)
	return d
}

func noon() *clockwork.FakeClock {
	return clockwork.NewFakeClockAt(time.Date(2024, 6, 1, 12, 7, 30, 0, time.UTC))
}

func isBlack(img image.Image, x, y int) bool {
	r, g, b, _ := img.At(x, y).RGBA()
	return r == 0 && g == 0 && b == 0
}

func TestPass_ThreeModulesWithFailure(t *testing.T) {
	drv := &recordingDriver{}
	d := newTestDaemon(t, testConfig(t), drv, noon())

	report := d.Pass(context.Background())
	require.NoError(t, report.Err)

	assert.Contains(t, report.Info, "module 1: OK")
	assert.Contains(t, report.Info, "module 2: Error!")
	assert.Contains(t, report.Info, "module 3: OK")
	assert.Equal(t, []int{2}, report.Result.Errors)
	assert.True(t, report.Refreshed)

	canvasPNG, err := bitmap.LoadPNG(filepath.Join(d.Workspace(), "canvas.png"))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 800, 480), canvasPNG.Bounds())
	assert.True(t, isBlack(canvasPNG, 400, 0))
	assert.True(t, isBlack(canvasPNG, 400, 99))
	assert.False(t, isBlack(canvasPNG, 400, 100), "failed module's slot stays blank")
	assert.False(t, isBlack(canvasPNG, 400, 149))
	assert.True(t, isBlack(canvasPNG, 400, 150), "cursor advanced by the failed module's height")
	assert.True(t, isBlack(canvasPNG, 400, 229))
	assert.False(t, isBlack(canvasPNG, 400, 230))

	for _, name := range []string{"module1_black.png", "module2_black.png", "module2_colour.png", "canvas_colour.png", "full-screen.png", "canvas.png.hash"} {
		assert.FileExists(t, filepath.Join(d.Workspace(), name))
	}

	st := d.State()
	assert.Equal(t, 0, st.ConsecutiveSuccesses)
	assert.Equal(t, 1, st.Passes)
	assert.Equal(t, report.Info, st.LastInfoLine)
}

func TestPass_SkipsUnchangedContent(t *testing.T) {
	drv := &recordingDriver{}
	cfg := testConfig(t, config.ModuleConfig{Name: "solid", Position: 1, Region: config.RegionConfig{Width: 800, Height: 100}})
	d := newTestDaemon(t, cfg, drv, noon())

	first := d.Pass(context.Background())
	second := d.Pass(context.Background())
	assert.True(t, first.Refreshed)
	assert.False(t, second.Refreshed)
	assert.Equal(t, 1, drv.renders())
	assert.Equal(t, 2, d.State().ConsecutiveSuccesses)
}

func TestPass_DriverFaultLeavesFingerprintStale(t *testing.T) {
	drv := &recordingDriver{renderErr: errors.New("busy pin stuck")}
	cfg := testConfig(t, config.ModuleConfig{Name: "solid", Position: 1, Region: config.RegionConfig{Width: 800, Height: 100}})
	d := newTestDaemon(t, cfg, drv, noon())

	report := d.Pass(context.Background())
	require.Error(t, report.Err)
	assert.True(t, ferrors.IsCategory(report.Err, ferrors.CategoryDriver))
	assert.NoFileExists(t, filepath.Join(d.Workspace(), "canvas.png.hash"))

	drv.renderErr = nil
	report = d.Pass(context.Background())
	require.NoError(t, report.Err)
	assert.True(t, report.Refreshed, "the failed refresh is retried")
}

func TestPass_CalibrationForcesRefresh(t *testing.T) {
	drv := &recordingDriver{}
	clock := clockwork.NewFakeClockAt(time.Date(2024, 6, 1, 2, 40, 0, 0, time.UTC))
	cfg := testConfig(t, config.ModuleConfig{Name: "solid", Position: 1, Region: config.RegionConfig{Width: 800, Height: 100}})
	d := newTestDaemon(t, cfg, drv, clock)

	ctx := context.Background()
	assert.True(t, d.Pass(ctx).Refreshed)
	assert.False(t, d.Pass(ctx).Refreshed)

	clock.Advance(20 * time.Minute) // 03:00, a calibration hour
	report := d.Pass(ctx)
	assert.True(t, report.Calibrated)
	assert.True(t, report.Refreshed, "calibration clears fingerprints")

	clock.Advance(20 * time.Minute)
	report = d.Pass(ctx)
	assert.False(t, report.Calibrated, "at most once per hour")
	assert.False(t, report.Refreshed)
	assert.Equal(t, 1, drv.calibrations)
}

func TestPass_MonochromeMergesAccent(t *testing.T) {
	drv := &recordingDriver{}
	cfg := testConfig(t,
		config.ModuleConfig{Name: "solid", Position: 1, Region: config.RegionConfig{Width: 800, Height: 100}},
		config.ModuleConfig{Name: "accent", Position: 2, Region: config.RegionConfig{Width: 800, Height: 100}},
	)
	d := newTestDaemon(t, cfg, drv, noon())

	require.NoError(t, d.Pass(context.Background()).Err)
	require.Equal(t, 1, drv.renders())
	assert.Nil(t, drv.accents[0])
	assert.True(t, isBlack(drv.primaries[0], 10, 150), "accent content folded into the primary plane")
}

func TestPass_ColourPanelRendersBothPlanesRotated(t *testing.T) {
	drv := &recordingDriver{}
	cfg := testConfig(t,
		config.ModuleConfig{Name: "solid", Position: 1, Region: config.RegionConfig{Width: 800, Height: 100}},
		config.ModuleConfig{Name: "accent", Position: 2, Region: config.RegionConfig{Width: 800, Height: 100}},
	)
	cfg.Display.Orientation = 180
	colour := &panel.Model{Name: "test_panel_colour", Width: 480, Height: 800, Colour: true}
	d, err := New(cfg, Options{Registry: testRegistry(), Driver: drv, Model: colour, Clock: noon()})
	require.NoError(t, err)

	require.NoError(t, d.Pass(context.Background()).Err)
	require.Equal(t, 1, drv.renders())
	require.NotNil(t, drv.accents[0])
	// Rotated: the first region is now at the bottom.
	assert.True(t, isBlack(drv.primaries[0], 10, 479))
	assert.False(t, isBlack(drv.primaries[0], 10, 0))
	assert.True(t, isBlack(drv.accents[0], 10, 479-150))
	assert.FileExists(t, filepath.Join(d.Workspace(), "canvas_colour.png.hash"))
}

func TestPass_DisabledGateStampsTime(t *testing.T) {
	drv := &recordingDriver{}
	cfg := testConfig(t, config.ModuleConfig{Name: "solid", Position: 1, Region: config.RegionConfig{Width: 800, Height: 100}})
	cfg.Display.ImageHash = false
	d := newTestDaemon(t, cfg, drv, noon())

	r1 := d.Pass(context.Background())
	r2 := d.Pass(context.Background())
	assert.True(t, strings.HasPrefix(r1.Info, "1 Jun @ 12:07  module 1: OK"))
	assert.True(t, r1.Refreshed)
	assert.True(t, r2.Refreshed)
	assert.NoFileExists(t, filepath.Join(d.Workspace(), "canvas.png.hash"))
}

func TestPass_RenderDisabled(t *testing.T) {
	cfg := testConfig(t)
	cfg.Display.Render = false
	cfg.Display.Model = ""
	d, err := New(cfg, Options{Registry: testRegistry(), Clock: noon()})
	require.NoError(t, err)

	report := d.Pass(context.Background())
	require.NoError(t, report.Err)
	assert.False(t, report.Refreshed)
	img, err := bitmap.LoadPNG(filepath.Join(d.Workspace(), "canvas.png"))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 800, 230), img.Bounds(), "canvas sized from regions")

	assert.Error(t, d.Calibrate(context.Background()))
}

func TestNew_StartupFaults(t *testing.T) {
	cfg := testConfig(t, config.ModuleConfig{Name: "weather", Position: 1, Region: config.RegionConfig{Width: 10, Height: 10}})
	_, err := New(cfg, Options{Registry: testRegistry(), Model: nativePortrait})
	require.Error(t, err)
	assert.True(t, ferrors.IsCategory(err, ferrors.CategoryConfig))

	cfg = testConfig(t)
	cfg.Display.Model = "epd_unknown"
	_, err = New(cfg, Options{Registry: testRegistry()})
	require.Error(t, err)
	assert.True(t, ferrors.IsCategory(err, ferrors.CategoryValidation))
}

func TestNew_PurgesFingerprints(t *testing.T) {
	cfg := testConfig(t)
	stale := filepath.Join(cfg.Paths.ImageDir, "canvas.png.hash")
	require.NoError(t, os.MkdirAll(cfg.Paths.ImageDir, 0o750))
	require.NoError(t, os.WriteFile(stale, []byte("deadbeef"), 0o600))

	newTestDaemon(t, cfg, &recordingDriver{}, noon())
	assert.NoFileExists(t, stale)
}

func TestCalibrate_ForcesPass(t *testing.T) {
	drv := &recordingDriver{}
	cfg := testConfig(t, config.ModuleConfig{Name: "solid", Position: 1, Region: config.RegionConfig{Width: 800, Height: 100}})
	d := newTestDaemon(t, cfg, drv, noon())
	ctx := context.Background()

	d.Pass(ctx)
	require.NoError(t, d.Calibrate(ctx))
	assert.Equal(t, 1, drv.calibrations)
	assert.Equal(t, 2, drv.renders())
}

func TestRunOnce_WritesMetricsAndPrintsSummary(t *testing.T) {
	cfg := testConfig(t, config.ModuleConfig{Name: "solid", Position: 1, Region: config.RegionConfig{Width: 800, Height: 100}})
	cfg.Metrics = config.MetricsConfig{Enabled: true, Textfile: filepath.Join(t.TempDir(), "inkframe.prom"), FlushInterval: "30s"}
	var out bytes.Buffer
	d, err := New(cfg, Options{Registry: testRegistry(), Driver: &recordingDriver{}, Model: nativePortrait, Clock: noon(), Printer: printer.New(&out)})
	require.NoError(t, err)

	require.NoError(t, d.RunOnce(context.Background()))
	data, err := os.ReadFile(cfg.Metrics.Textfile)
	require.NoError(t, err)
	assert.Contains(t, string(data), `inkframe_module_results_total{position="1",result="ok"} 1`)
	assert.Contains(t, string(data), `inkframe_refresh_decisions_total{decision="refresh"} 1`)
	assert.Contains(t, out.String(), "no errors since 1 display updates")
}

func TestRun_SleepsUntilBoundaries(t *testing.T) {
	clock := noon() // 12:07:30, interval 20
	cfg := testConfig(t, config.ModuleConfig{Name: "solid", Position: 1, Region: config.RegionConfig{Width: 800, Height: 100}})
	d := newTestDaemon(t, cfg, &recordingDriver{}, clock)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- d.Run(ctx) }()

	waitCtx, waitCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer waitCancel()

	require.NoError(t, clock.BlockUntilContext(waitCtx, 1))
	assert.Equal(t, 1, d.State().Passes)
	assert.Equal(t, StatusRunning, d.Status())

	clock.Advance(12*time.Minute + 30*time.Second - time.Millisecond)
	assert.Equal(t, 1, d.State().Passes, "no pass before the boundary")

	clock.Advance(time.Millisecond)
	require.NoError(t, clock.BlockUntilContext(waitCtx, 1))
	assert.Equal(t, 2, d.State().Passes)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-waitCtx.Done():
		t.Fatal("Run did not stop after cancellation")
	}
	assert.Equal(t, StatusStopped, d.Status())
}

func TestPass_PreviewUsesConfiguredThreshold(t *testing.T) {
	cfg := testConfig(t, config.ModuleConfig{Name: "grey", Position: 1, Region: config.RegionConfig{Width: 800, Height: 100}})
	cfg.Display.Threshold = 100
	d := newTestDaemon(t, cfg, &recordingDriver{}, noon())

	require.NoError(t, d.Pass(context.Background()).Err)

	grey := color.RGBA{R: 150, G: 150, B: 150, A: 0xff}
	accent, err := bitmap.LoadPNG(filepath.Join(d.Workspace(), "canvas_colour.png"))
	require.NoError(t, err)
	assert.Equal(t, grey, color.RGBAModel.Convert(accent.At(10, 10)), "grey is above the threshold and is not ink")

	preview, err := bitmap.LoadPNG(filepath.Join(d.Workspace(), "full-screen.png"))
	require.NoError(t, err)
	assert.Equal(t, grey, color.RGBAModel.Convert(preview.At(10, 10)), "preview must not highlight what the reduction kept")
}

func TestPass_SummaryOnBoundaryShowsFullInterval(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2024, 6, 1, 12, 20, 0, 0, time.UTC))
	cfg := testConfig(t, config.ModuleConfig{Name: "solid", Position: 1, Region: config.RegionConfig{Width: 800, Height: 100}})
	var out bytes.Buffer
	d, err := New(cfg, Options{Registry: testRegistry(), Driver: &recordingDriver{}, Model: nativePortrait, Clock: clock, Printer: printer.New(&out)})
	require.NoError(t, err)

	d.Pass(context.Background())
	assert.Equal(t, 20*time.Minute, d.nextWait())
	assert.Contains(t, out.String(), "next in 20m0s")
	assert.NotContains(t, out.String(), "next in 0s")

	clock.Advance(7*time.Minute + 30*time.Second)
	assert.Equal(t, 12*time.Minute+30*time.Second, d.nextWait())
}
