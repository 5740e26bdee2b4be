// Package deps verifies the external tools a transfer strategy shells out to.
package deps

import (
	"fmt"
	"os/exec"
	"strings"
)

// Requirement defines an external binary a strategy relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
}

// Status reports the availability of a requirement.
type Status struct {
	Name        string
	Command     string
	Description string
	Available   bool
	Detail      string
}

// ForStrategy returns the external requirements of the named transfer
// strategy. The built-in strategies need nothing.
func ForStrategy(strategy, rsyncBinary string) []Requirement {
	if !strings.EqualFold(strings.TrimSpace(strategy), "rsync") {
		return nil
	}
	binary := strings.TrimSpace(rsyncBinary)
	if binary == "" {
		binary = "rsync"
	}
	return []Requirement{{
		Name:        "rsync",
		Command:     binary,
		Description: "file transfer tool used by the rsync strategy",
	}}
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
		}
		if cmd == "" {
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		if _, err := exec.LookPath(cmd); err != nil {
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Available = true
		results = append(results, status)
	}
	return results
}

// Missing filters statuses down to unavailable requirements.
func Missing(statuses []Status) []Status {
	var missing []Status
	for _, status := range statuses {
		if !status.Available {
			missing = append(missing, status)
		}
	}
	return missing
}
