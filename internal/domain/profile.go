package domain

import (
	"fmt"
	"os"
	"time"
)

// LaunchProfile describes how to launch one executable: its path, the CPUs
// it may run on, and an optional scheduling priority. Profiles are
// immutable once handed to the launcher; the store owns persistence.
type LaunchProfile struct {
	Name        string // empty for ad-hoc launches
	Path        string
	CPUs        []int
	Priority    PriorityLevel
	RetryBudget int  // 0 means the configured default
	Transient   bool // elevation-handoff record, purged on startup
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Validate checks the invariants the launcher depends on: the executable
// must exist and the CPU set must be non-empty. Failures are reported as
// *ValidationError so the CLI can offer recovery actions.
func (p *LaunchProfile) Validate() error {
	if p.Path == "" {
		return &ValidationError{Field: "path", Reason: "no executable path set"}
	}
	info, err := os.Stat(p.Path)
	if err != nil {
		return &ValidationError{Field: "path", Reason: fmt.Sprintf("executable %q not found", p.Path)}
	}
	if info.IsDir() {
		return &ValidationError{Field: "path", Reason: fmt.Sprintf("%q is a directory", p.Path)}
	}
	if len(p.CPUs) == 0 {
		return &ValidationError{Field: "cpus", Reason: "CPU set is empty"}
	}
	for _, cpu := range p.CPUs {
		if cpu < 0 {
			return &ValidationError{Field: "cpus", Reason: fmt.Sprintf("negative CPU index %d", cpu)}
		}
	}
	return nil
}
