// Package transfer provides the interchangeable backends that move one file
// to its destination. The strategy is chosen at construction; callers only
// see the Strategy interface.
package transfer

import (
	"context"
	"fmt"
	"strings"
)

// Strategy transfers a single source file to a destination path. Implementations
// must be safe for concurrent use and idempotent: re-transferring an already
// delivered file succeeds without corrupting it.
type Strategy interface {
	Name() string
	Transfer(ctx context.Context, src, dst string) error
}

// Config carries the construction-time knobs shared by the backends.
type Config struct {
	// SkipExisting treats a destination of identical size as already done.
	SkipExisting bool
	// Verify enables SHA-256 verification in the copy backend.
	Verify bool
	// RsyncBinary and RsyncArgs configure the external rsync backend.
	RsyncBinary string
	RsyncArgs   []string
	// Sidecar resolves a companion file (e.g. 1234.json) for a transferred
	// filename. Nil disables sidecar handling.
	Sidecar SidecarResolver
}

// SidecarResolver maps a sidecar filename to its source path.
type SidecarResolver func(name string) (string, bool)

// ForName constructs the named strategy. Known names are "copy", "rsync",
// "symlink", and "move".
func ForName(name string, cfg Config) (Strategy, error) {
	var strategy Strategy
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "copy":
		strategy = &copyStrategy{skipExisting: cfg.SkipExisting, verify: cfg.Verify}
	case "rsync":
		strategy = newRsyncStrategy(cfg.RsyncBinary, cfg.RsyncArgs)
	case "symlink":
		strategy = symlinkStrategy{}
	case "move":
		strategy = moveStrategy{}
	default:
		return nil, fmt.Errorf("unknown transfer strategy %q", name)
	}
	if cfg.Sidecar != nil {
		strategy = &sidecarStrategy{inner: strategy, resolve: cfg.Sidecar}
	}
	return strategy, nil
}
