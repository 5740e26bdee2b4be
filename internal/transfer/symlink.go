package transfer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
)

// symlinkStrategy links instead of copying, trading durability for space.
// Re-running against an existing link pointing at the same target succeeds;
// a link pointing elsewhere is replaced (later write wins).
type symlinkStrategy struct{}

func (symlinkStrategy) Name() string { return "symlink" }

func (symlinkStrategy) Transfer(ctx context.Context, src, dst string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := requireSource(src); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}

	err := os.Symlink(src, dst)
	if err == nil {
		return nil
	}
	if !errors.Is(err, os.ErrExist) {
		return err
	}

	existing, readErr := os.Readlink(dst)
	if readErr == nil && existing == src {
		return nil
	}
	if removeErr := os.Remove(dst); removeErr != nil {
		return removeErr
	}
	return os.Symlink(src, dst)
}
