package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInput marks structurally invalid input: missing metadata file,
	// unreadable header, missing source tree. Always fatal for the run.
	ErrInput = errors.New("input error")
	// ErrConfiguration marks unusable configuration. Fatal for the run.
	ErrConfiguration = errors.New("configuration error")
	// ErrNotFound marks lookups that resolved to nothing.
	ErrNotFound = errors.New("not found")
	// ErrExternalTool marks failures reported by an external transfer tool.
	ErrExternalTool = errors.New("external tool error")
	// ErrTransient marks per-job I/O failures that do not abort the run.
	ErrTransient = errors.New("transient failure")
)

// Wrap builds an error message that includes pipeline context while tagging
// it with the provided marker for later classification. The marker should be
// one of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Fatal reports whether an error should abort the whole run rather than be
// recorded as a per-job outcome.
func Fatal(err error) bool {
	return errors.Is(err, ErrInput) || errors.Is(err, ErrConfiguration)
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
