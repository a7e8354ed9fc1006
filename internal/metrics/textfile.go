package metrics

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	prom "github.com/prometheus/client_golang/prometheus"
)

// TextfileWriter exports a registry in the node_exporter textfile format.
type TextfileWriter struct {
	mu   sync.Mutex
	reg  prom.Gatherer
	path string
}

// NewTextfileWriter creates a writer for reg targeting path.
func NewTextfileWriter(reg prom.Gatherer, path string) *TextfileWriter {
	return &TextfileWriter{reg: reg, path: path}
}

// Path returns the target file.
func (w *TextfileWriter) Path() string { return w.path }

// Flush writes the current registry contents atomically.
func (w *TextfileWriter) Flush() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := os.MkdirAll(filepath.Dir(w.path), 0o750); err != nil {
		return fmt.Errorf("create metrics dir: %w", err)
	}
	if err := prom.WriteToTextfile(w.path, w.reg); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
