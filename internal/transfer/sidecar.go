package transfer

import (
	"context"
	"path/filepath"
	"strings"
)

// sidecarStrategy decorates another strategy: after a successful transfer it
// delivers the matching <stem>.json sidecar next to the file, best-effort.
// A sidecar failure never fails the job.
type sidecarStrategy struct {
	inner   Strategy
	resolve SidecarResolver
}

func (s *sidecarStrategy) Name() string { return s.inner.Name() }

func (s *sidecarStrategy) Transfer(ctx context.Context, src, dst string) error {
	if err := s.inner.Transfer(ctx, src, dst); err != nil {
		return err
	}

	name := filepath.Base(src)
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	sidecarName := stem + ".json"
	if sidecarName == name {
		return nil
	}
	sidecarSrc, ok := s.resolve(sidecarName)
	if !ok {
		return nil
	}
	sidecarDst := filepath.Join(filepath.Dir(dst), sidecarName)
	_ = s.inner.Transfer(ctx, sidecarSrc, sidecarDst)
	return nil
}
