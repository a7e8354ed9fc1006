// Package workspace manages the image directory holding per-module
// artifacts, full-canvas renders and their fingerprint files.
//
// Persistent mode uses the configured image directory and never removes it;
// fingerprints written there survive between passes.
//
// Ephemeral mode creates a timestamped directory (e.g. inkframe-20261019-122336)
// for one-off passes that must not disturb the daemon's artifacts, and removes
// it on Cleanup.
package workspace
