package workspace

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"git.home.luguber.info/inful/inkframe/internal/bitmap"
	"git.home.luguber.info/inful/inkframe/internal/logfields"
)

// Artifact file names inside the workspace.
const (
	CanvasFile       = "canvas.png"
	CanvasColourFile = "canvas_colour.png"
	FullScreenFile   = "full-screen.png"
	HashSuffix       = ".hash"
)

// Manager resolves artifact paths inside a workspace directory.
type Manager struct {
	baseDir    string
	dir        string
	persistent bool
}

// NewManager creates a manager for an ephemeral timestamped directory under baseDir.
func NewManager(baseDir string) *Manager {
	if baseDir == "" {
		baseDir = os.TempDir()
	}
	return &Manager{baseDir: baseDir}
}

// NewPersistentManager creates a manager using dir directly.
func NewPersistentManager(dir string) *Manager {
	return &Manager{baseDir: dir, dir: dir, persistent: true}
}

// Create ensures the workspace directory exists.
func (m *Manager) Create() error {
	if m.persistent {
		if err := os.MkdirAll(m.dir, 0o750); err != nil {
			return fmt.Errorf("failed to create image directory: %w", err)
		}
		slog.Debug("Using image directory", logfields.Path(m.dir))
		return nil
	}

	timestamp := time.Now().Format("20060102-150405")
	dir := filepath.Join(m.baseDir, fmt.Sprintf("inkframe-%s", timestamp))
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("failed to create workspace directory: %w", err)
	}
	m.dir = dir
	slog.Info("Created scratch workspace", logfields.Path(dir))
	return nil
}

// Cleanup removes an ephemeral workspace; persistent directories are kept.
func (m *Manager) Cleanup() error {
	if m.dir == "" || m.persistent {
		return nil
	}
	if err := os.RemoveAll(m.dir); err != nil {
		return fmt.Errorf("failed to cleanup workspace: %w", err)
	}
	slog.Info("Cleaned up scratch workspace", logfields.Path(m.dir))
	m.dir = ""
	return nil
}

// GetPath returns the workspace directory ("" before Create for ephemeral mode).
func (m *Manager) GetPath() string {
	return m.dir
}

// ModulePath returns the intermediate artifact of one module plane,
// e.g. module3_colour.png.
func (m *Manager) ModulePath(position int, plane string) string {
	return filepath.Join(m.dir, fmt.Sprintf("module%d_%s.png", position, plane))
}

// CanvasPath returns the reduced primary plane artifact.
func (m *Manager) CanvasPath() string { return filepath.Join(m.dir, CanvasFile) }

// CanvasColourPath returns the reduced accent plane artifact.
func (m *Manager) CanvasColourPath() string { return filepath.Join(m.dir, CanvasColourFile) }

// FullScreenPath returns the combined preview artifact.
func (m *Manager) FullScreenPath() string { return filepath.Join(m.dir, FullScreenFile) }

// HashPath returns the fingerprint file co-located with an artifact.
func (m *Manager) HashPath(artifact string) string { return artifact + HashSuffix }

// PlanePath returns the canvas artifact for a plane name.
func (m *Manager) PlanePath(plane string) string {
	if plane == bitmap.PlaneColour {
		return m.CanvasColourPath()
	}
	return m.CanvasPath()
}
