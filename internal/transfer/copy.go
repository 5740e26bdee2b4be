package transfer

import (
	"context"
	"errors"
	"io/fs"
	"os"

	"curator/internal/fileutil"
	"curator/internal/services"
)

// copyStrategy streams file content in-process. The default backend.
type copyStrategy struct {
	skipExisting bool
	verify       bool
}

func (s *copyStrategy) Name() string { return "copy" }

func (s *copyStrategy) Transfer(ctx context.Context, src, dst string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := requireSource(src); err != nil {
		return err
	}
	if s.skipExisting && fileutil.SameSize(src, dst) {
		return nil
	}
	if s.verify {
		return fileutil.CopyFileVerified(src, dst)
	}
	return fileutil.CopyFile(src, dst)
}

// requireSource distinguishes a source that vanished between indexing and
// transfer from ordinary I/O failures.
func requireSource(src string) error {
	if _, err := os.Stat(src); errors.Is(err, fs.ErrNotExist) {
		return services.Wrap(services.ErrNotFound, "transfer", "stat source", "source file disappeared after indexing", err)
	}
	return nil
}
