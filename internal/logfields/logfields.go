package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyPassID     = "pass_id"
	KeyModule     = "module"
	KeyPosition   = "position"
	KeyPlane      = "plane"
	KeyPath       = "path"
	KeyHour       = "hour"
	KeyDurationMS = "duration_ms"
	KeyRefresh    = "refresh"
	KeyModel      = "model"
	KeyStage      = "stage"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func PassID(id string) slog.Attr      { return slog.String(KeyPassID, id) }
func Module(name string) slog.Attr    { return slog.String(KeyModule, name) }
func Position(n int) slog.Attr        { return slog.Int(KeyPosition, n) }
func Plane(p string) slog.Attr        { return slog.String(KeyPlane, p) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func Hour(h int) slog.Attr            { return slog.Int(KeyHour, h) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Refresh(b bool) slog.Attr        { return slog.Bool(KeyRefresh, b) }
func Model(m string) slog.Attr        { return slog.String(KeyModel, m) }
func Stage(name string) slog.Attr     { return slog.String(KeyStage, name) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
