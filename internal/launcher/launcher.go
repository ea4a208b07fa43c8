package launcher

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/hochfrequenz/pinrun/internal/affinity"
	"github.com/hochfrequenz/pinrun/internal/domain"
	"github.com/hochfrequenz/pinrun/internal/profilestore"
	"github.com/hochfrequenz/pinrun/internal/retry"
)

// ElevationGate decides whether a launch must be handed off to an
// elevated re-invocation of the program. handedOff=true means the
// re-invocation was issued and this process is done.
type ElevationGate interface {
	Negotiate(p *domain.LaunchProfile, name string, args []string) (handedOff bool, err error)
}

// Options carries per-invocation launch parameters from the CLI.
type Options struct {
	Name           string   // profile name, empty for ad-hoc launches
	Args           []string // pass-through arguments for the target
	CleanupHandoff bool     // this invocation was handed a transient record
	RetryBudget    int      // configured default; profile override wins
	InitialDelay   time.Duration
}

// Launcher composes the strategy, retry controller and elevation gate
// into the launch sequence.
type Launcher struct {
	Strategy Strategy
	Store    profilestore.Store
	Gate     ElevationGate // nil on platforms without an elevation gate
}

// Launch validates the profile, negotiates elevation, spawns the target
// and drives constraint application. The returned Outcome is the terminal
// classification for the CLI; a non-nil error is a hard failure outside
// that classification (such as spawn failure).
func (l *Launcher) Launch(p *domain.LaunchProfile, opts Options) (*domain.Outcome, error) {
	// The transient handoff record is deleted on every exit path.
	if opts.CleanupHandoff && opts.Name != "" && l.Store != nil {
		defer func() {
			if err := l.Store.Delete(opts.Name); err != nil && !errors.Is(err, profilestore.ErrNotFound) {
				fmt.Fprintf(os.Stderr, "Warning: could not remove handoff record %q: %v\n", opts.Name, err)
			}
		}()
	}

	if err := p.Validate(); err != nil {
		return &domain.Outcome{Kind: domain.ValidationFailed, Reason: err.Error()}, nil
	}
	warnExcessIndices(p.CPUs)

	plan, err := l.Strategy.Plan(p)
	if err != nil {
		if errors.Is(err, affinity.ErrInvalidMask) {
			return &domain.Outcome{Kind: domain.ValidationFailed, Reason: err.Error()}, nil
		}
		return nil, err
	}

	if l.Gate != nil && p.Priority.RequiresElevation() {
		handedOff, err := l.Gate.Negotiate(p, opts.Name, opts.Args)
		if err != nil {
			var eerr *domain.ElevationError
			if errors.As(err, &eerr) {
				return &domain.Outcome{Kind: domain.ElevationDeclined, Reason: eerr.Error()}, nil
			}
			return nil, err
		}
		if handedOff {
			return &domain.Outcome{Kind: domain.LaunchedFully, Reason: "handed off to elevated instance"}, nil
		}
	}

	fmt.Println(plan.Summary)
	if msg := warnIgnored(plan.Ignored); msg != "" {
		fmt.Fprintln(os.Stderr, msg)
	}

	proc, err := l.Strategy.Spawn(plan, opts.Args)
	if err != nil {
		return nil, err
	}
	fmt.Printf("Process launched with PID %d\n", proc.PID)

	if !l.Strategy.PostSpawn() {
		return &domain.Outcome{Kind: domain.LaunchedFully, PID: proc.PID}, nil
	}

	ctrl := retry.New(budget(p, opts))
	if opts.InitialDelay > 0 {
		ctrl.InitialDelay = opts.InitialDelay
	}

	st := &ApplyState{TargetPID: proc.PID}
	achieved, err := ctrl.Do(func(attempt int) (bool, error) {
		return l.Strategy.Apply(plan, proc, st)
	})
	if err != nil {
		return &domain.Outcome{
			Kind:   domain.LaunchedPartially,
			Reason: fmt.Sprintf("applied: %s; last error: %v", st.Applied(), err),
			PID:    proc.PID,
		}, nil
	}
	if !achieved {
		return &domain.Outcome{
			Kind:   domain.LaunchedPartially,
			Reason: fmt.Sprintf("constraints not confirmed within %d attempts (applied: %s)", ctrl.Budget, st.Applied()),
			PID:    proc.PID,
		}, nil
	}

	return &domain.Outcome{Kind: domain.LaunchedFully, PID: proc.PID}, nil
}

func budget(p *domain.LaunchProfile, opts Options) int {
	if p.RetryBudget > 0 {
		return p.RetryBudget
	}
	return opts.RetryBudget
}

// warnExcessIndices warns when requested indices exceed the live system's
// CPU count. Not an error: the OS ignores the excess.
func warnExcessIndices(cpus []int) {
	n := runtime.NumCPU()
	for _, cpu := range cpus {
		if cpu >= n {
			fmt.Fprintf(os.Stderr, "Warning: CPU index %d exceeds this system's %d logical CPUs\n", cpu, n)
		}
	}
}
