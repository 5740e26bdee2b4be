package transfer

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"curator/internal/services"
)

// Executor abstracts command execution for testability.
type Executor interface {
	Run(ctx context.Context, binary string, args []string) error
}

type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, binary string, args []string) error {
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	output, err := cmd.CombinedOutput()
	if err != nil {
		detail := strings.TrimSpace(string(output))
		if detail == "" {
			return err
		}
		return services.Wrap(services.ErrExternalTool, "transfer", "rsync", detail, err)
	}
	return nil
}

// rsyncStrategy delegates the transfer to an external rsync process,
// preserving attributes via archive mode.
type rsyncStrategy struct {
	binary    string
	extraArgs []string
	exec      Executor
}

func newRsyncStrategy(binary string, extraArgs []string) *rsyncStrategy {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "rsync"
	}
	return &rsyncStrategy{binary: binary, extraArgs: extraArgs, exec: commandExecutor{}}
}

// withExecutor injects a custom executor (used in tests).
func (s *rsyncStrategy) withExecutor(exec Executor) *rsyncStrategy {
	if exec != nil {
		s.exec = exec
	}
	return s
}

func (s *rsyncStrategy) Name() string { return "rsync" }

func (s *rsyncStrategy) Transfer(ctx context.Context, src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	args := make([]string, 0, len(s.extraArgs)+4)
	args = append(args, "-a")
	args = append(args, s.extraArgs...)
	args = append(args, "--", src, dst)
	if err := s.exec.Run(ctx, s.binary, args); err != nil {
		return err
	}
	return nil
}
