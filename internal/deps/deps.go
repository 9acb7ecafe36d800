// Package deps reports availability of the external binaries stemsplit
// drives. Resolution happens once per command invocation and the resolved
// paths are injected into the tool clients, keeping the core testable with
// fakes.
package deps

import (
	"fmt"
	"os/exec"
	"strings"
)

// Requirement defines an external dependency stemsplit relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Detail      string
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
			Optional:    req.Optional,
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

// Resolve returns the absolute path for a binary name when it can be found
// on PATH, otherwise the name unchanged.
func Resolve(binary string) string {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return binary
	}
	if resolved, err := exec.LookPath(binary); err == nil {
		return resolved
	}
	return binary
}
