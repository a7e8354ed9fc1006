// Package fingerprint decides whether the panel needs a physical refresh by
// comparing content digests of the rendered planes with the digests stored
// next to them at the last refresh.
package fingerprint

import (
	"crypto/md5" //nolint:gosec // content fingerprint, not a security boundary
	"encoding/hex"
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/inkframe/internal/bitmap"
	ferrors "git.home.luguber.info/inful/inkframe/internal/errors"
	"git.home.luguber.info/inful/inkframe/internal/logfields"
)

// Suffix is appended to an artifact path to form its fingerprint file.
const Suffix = ".hash"

// Candidate is one rendered plane together with its fingerprint file.
type Candidate struct {
	HashPath string
	Image    image.Image
}

// Digest returns the lowercase hex MD5 of the opaque RGBA pixel buffer.
func Digest(img image.Image) string {
	sum := md5.Sum(bitmap.Opaque(img).Pix) //nolint:gosec
	return hex.EncodeToString(sum[:])
}

// Gate compares candidates against stored fingerprints.
type Gate struct {
	enabled bool
	dir     string
}

// NewGate creates a gate. dir is the directory Purge clears; a disabled
// gate always requests a refresh and never touches the filesystem.
func NewGate(enabled bool, dir string) *Gate {
	return &Gate{enabled: enabled, dir: dir}
}

// Enabled reports whether fingerprints are compared.
func (g *Gate) Enabled() bool { return g.enabled }

type pending struct {
	path   string
	digest string
}

// Decision is the outcome of Decide. Commit persists the new digests.
type Decision struct {
	Refresh bool
	pending []pending
}

// Commit writes every changed digest. Call it once the panel has been
// refreshed so that a failed refresh is retried on the next pass.
func (d *Decision) Commit() error {
	if d == nil {
		return nil
	}
	for _, p := range d.pending {
		if err := os.WriteFile(p.path, []byte(p.digest), 0o600); err != nil {
			return ferrors.FilesystemError("write", p.path, err)
		}
	}
	d.pending = nil
	return nil
}

// Decide digests every candidate and compares it with the stored digest.
// A missing or unreadable digest file counts as a change.
func (g *Gate) Decide(candidates []Candidate) (*Decision, error) {
	d := &Decision{}
	if !g.enabled {
		d.Refresh = true
		return d, nil
	}
	for _, c := range candidates {
		if c.Image == nil {
			continue
		}
		digest := Digest(c.Image)
		if stored := readDigest(c.HashPath); stored != digest {
			d.Refresh = true
			d.pending = append(d.pending, pending{path: c.HashPath, digest: digest})
			slog.Debug("Fingerprint changed", logfields.Path(c.HashPath))
		}
	}
	return d, nil
}

// DecideRefresh is Decide followed by an immediate Commit.
func (g *Gate) DecideRefresh(candidates []Candidate) (bool, error) {
	d, err := g.Decide(candidates)
	if err != nil {
		return false, err
	}
	if err := d.Commit(); err != nil {
		return false, err
	}
	return d.Refresh, nil
}

// Purge deletes every fingerprint file in the gate directory so the next
// decision forces a refresh.
func (g *Gate) Purge() error {
	if g.dir == "" {
		return nil
	}
	entries, err := os.ReadDir(g.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return ferrors.FilesystemError("list", g.dir, err)
	}
	removed := 0
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), Suffix) {
			continue
		}
		path := filepath.Join(g.dir, e.Name())
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return ferrors.FilesystemError("remove", path, err)
		}
		removed++
	}
	slog.Debug("Purged fingerprints", logfields.Path(g.dir), slog.Int("removed", removed))
	return nil
}

func readDigest(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("Unreadable fingerprint; treating as changed", logfields.Path(path), logfields.Error(err))
		}
		return ""
	}
	return strings.TrimSpace(string(data))
}

// String describes the decision for logs.
func (d *Decision) String() string {
	if d == nil {
		return "<nil>"
	}
	return fmt.Sprintf("refresh=%t changed=%d", d.Refresh, len(d.pending))
}
