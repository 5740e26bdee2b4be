package transfer

import (
	"context"

	"curator/internal/fileutil"
	"curator/internal/services"
)

// moveStrategy relocates the file instead of copying it, draining the
// source tree as the run progresses. A re-run after a completed move finds
// nothing to resolve and reports the records as skipped.
type moveStrategy struct{}

func (moveStrategy) Name() string { return "move" }

func (moveStrategy) Transfer(ctx context.Context, src, dst string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := requireSource(src); err != nil {
		return err
	}
	if err := fileutil.MoveFile(src, dst); err != nil {
		return services.Wrap(services.ErrTransient, "transfer", "move", "relocate file", err)
	}
	return nil
}
