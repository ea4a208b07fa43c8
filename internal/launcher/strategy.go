// Package launcher spawns a target executable and applies CPU-affinity
// and priority constraints to it, directly through a process handle on
// Windows or through OS wrapper utilities at spawn time elsewhere.
package launcher

import (
	"fmt"
	"os/exec"

	"github.com/hochfrequenz/pinrun/internal/domain"
)

// Process is a handle to the spawned target.
type Process struct {
	PID int
	cmd *exec.Cmd
}

// ApplyState tracks which constraints have been confirmed across retry
// attempts, so a retried apply only touches the unconfirmed subset. It
// also carries the current target PID, which may move from the spawned
// launcher process to its child.
type ApplyState struct {
	TargetPID    int
	AffinityDone bool
	PriorityDone bool
}

// Retarget moves the apply target to a new PID and clears both
// confirmations: attributes confirmed on the previous process do not
// carry over to its successor.
func (s *ApplyState) Retarget(pid int) {
	s.TargetPID = pid
	s.AffinityDone = false
	s.PriorityDone = false
}

// Applied names the subset of constraints that made it through, for
// partial-success reporting.
func (s *ApplyState) Applied() string {
	switch {
	case s.AffinityDone && s.PriorityDone:
		return "affinity, priority"
	case s.AffinityDone:
		return "affinity"
	case s.PriorityDone:
		return "priority"
	default:
		return "none"
	}
}

// Plan is the platform-resolved form of a profile's constraints, computed
// before any process is touched.
type Plan struct {
	Profile *domain.LaunchProfile
	Mask    uint64 // direct-control variant
	CPUList string // wrapper-delegation variant
	Nice    int    // wrapper-delegation variant
	Ignored []int  // CPU indices dropped as out of range
	Summary string // printed before acting
}

// Strategy is the platform launch variant, selected once per invocation.
type Strategy interface {
	// Plan resolves the profile's constraints to their platform
	// representation without touching the system. A zero affinity mask
	// fails here, before anything is spawned.
	Plan(p *domain.LaunchProfile) (*Plan, error)
	// Spawn starts the target. On failure no further action is taken.
	Spawn(plan *Plan, args []string) (*Process, error)
	// Apply performs one idempotent post-spawn constraint application.
	// It returns true when all constraints are confirmed, false when the
	// target is not ready yet.
	Apply(plan *Plan, proc *Process, st *ApplyState) (bool, error)
	// PostSpawn reports whether this variant applies constraints after
	// spawn (and therefore needs the retry controller).
	PostSpawn() bool
}

// ForPlatform returns the launch strategy for the running platform.
func ForPlatform() Strategy {
	return newStrategy()
}

func warnIgnored(ignored []int) string {
	if len(ignored) == 0 {
		return ""
	}
	return fmt.Sprintf("Warning: CPU indices %v are out of bounds for this system and will be ignored.", ignored)
}
