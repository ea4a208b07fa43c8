// Package elevation detects a privilege gap for gated priority classes
// and hands the launch off to an elevated re-invocation of the program.
package elevation

import (
	"fmt"
	"os"
	"strconv"

	"github.com/google/uuid"
	"github.com/hochfrequenz/pinrun/internal/domain"
)

// handoffNamespace is a fixed UUID namespace for synthesizing transient
// handoff names from the current process identity.
var handoffNamespace = uuid.MustParse("2f1c9d2a-5b77-4c83-9a01-7f6f3f5d8e41")

// TransientPrefix tags handoff records so orphans can be recognized and
// purged on startup.
const TransientPrefix = "elev-"

// State is the negotiator's position in the elevation round trip.
type State string

const (
	Unchecked           State = "unchecked"
	Sufficient          State = "sufficient"
	InsufficientPending State = "insufficient_pending"
	Elevated            State = "elevated"
	Cleaned             State = "cleaned"
)

// Store is the persistence surface the negotiator writes handoff records
// through. It is the same store named profiles live in.
type Store interface {
	Save(p *domain.LaunchProfile) error
	Delete(name string) error
}

// Negotiator runs the elevation state machine. IsElevated and Relaunch
// are platform functions, injected so the machine is testable with fakes.
type Negotiator struct {
	Store      Store
	IsElevated func() bool
	// Relaunch issues the privileged re-invocation, passing the profile
	// identity, the cleanup flag and the pass-through arguments. A
	// returned error must be a *domain.ElevationError.
	Relaunch func(name string, cleanup bool, args []string) error

	state State
}

// State returns the machine's current state.
func (n *Negotiator) State() State {
	if n.state == "" {
		return Unchecked
	}
	return n.state
}

// TransientName synthesizes a handoff name from the current process
// identity, for launches that have no durable profile name.
func TransientName() string {
	id := uuid.NewSHA1(handoffNamespace, []byte(strconv.Itoa(os.Getpid())))
	return TransientPrefix + id.String()
}

// Negotiate checks whether the requested priority needs rights this
// process lacks and, if so, persists a handoff record and re-invokes the
// program elevated. handedOff=true means the original intent now lives in
// the elevated child and this process should exit successfully without
// waiting for it.
func (n *Negotiator) Negotiate(p *domain.LaunchProfile, name string, args []string) (bool, error) {
	n.state = Unchecked

	if !p.Priority.RequiresElevation() || n.IsElevated() {
		n.state = Sufficient
		return false, nil
	}
	n.state = InsufficientPending

	// With no durable profile name, write a transient record through the
	// profile store so the elevated child can pick the intent back up.
	handoffName := name
	cleanup := false
	if handoffName == "" {
		handoffName = TransientName()
		cleanup = true
		record := *p
		record.Name = handoffName
		record.Transient = true
		if err := n.Store.Save(&record); err != nil {
			n.state = Cleaned
			return false, &domain.ElevationError{Cause: domain.CauseUnknown, Err: fmt.Errorf("persisting handoff record: %w", err)}
		}
	}

	if err := n.Relaunch(handoffName, cleanup, args); err != nil {
		if cleanup {
			if derr := n.Store.Delete(handoffName); derr != nil {
				fmt.Fprintf(os.Stderr, "Warning: could not remove handoff record %q: %v\n", handoffName, derr)
			}
		}
		n.state = Cleaned
		return false, err
	}

	n.state = Elevated
	return true, nil
}
