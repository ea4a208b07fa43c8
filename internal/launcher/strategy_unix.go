//go:build !windows

package launcher

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/hochfrequenz/pinrun/internal/affinity"
	"github.com/hochfrequenz/pinrun/internal/domain"
)

// wrapperStrategy constrains the target at spawn time through the
// platform's wrapper utilities instead of touching a running process's
// scheduling attributes.
type wrapperStrategy struct{}

func newStrategy() Strategy {
	return &wrapperStrategy{}
}

func (s *wrapperStrategy) PostSpawn() bool { return false }

func (s *wrapperStrategy) Plan(p *domain.LaunchProfile) (*Plan, error) {
	mask, ignored, err := affinity.Mask(p.CPUs, affinity.WordWidth)
	if err != nil {
		return nil, err
	}

	// Pass only the in-range indices to taskset.
	var usable []int
	dropped := make(map[int]bool, len(ignored))
	for _, cpu := range ignored {
		dropped[cpu] = true
	}
	for _, cpu := range p.CPUs {
		if !dropped[cpu] {
			usable = append(usable, cpu)
		}
	}

	plan := &Plan{
		Profile: p,
		Mask:    mask,
		CPUList: affinity.List(usable),
		Nice:    Niceness(p.Priority),
		Ignored: ignored,
	}
	if p.Priority.IsSet() {
		plan.Summary = fmt.Sprintf("Launching %q with CPU affinity %s (mask 0x%X), niceness %d",
			p.Path, plan.CPUList, mask, plan.Nice)
	} else {
		plan.Summary = fmt.Sprintf("Launching %q with CPU affinity %s (mask 0x%X)",
			p.Path, plan.CPUList, mask)
	}
	return plan, nil
}

func (s *wrapperStrategy) Spawn(plan *Plan, args []string) (*Process, error) {
	for _, wrapper := range WrapperBinaries(plan) {
		if _, err := exec.LookPath(wrapper); err != nil {
			return nil, &domain.SpawnError{Path: plan.Profile.Path, Err: fmt.Errorf("wrapper %s not available: %w", wrapper, err)}
		}
	}

	argv := WrapperArgv(plan, args)
	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Start(); err != nil {
		return nil, &domain.SpawnError{Path: plan.Profile.Path, Err: err}
	}

	proc := &Process{PID: cmd.Process.Pid, cmd: cmd}
	// The target runs independently of the controller; reap it in the
	// background so it does not linger as a zombie while we exit.
	go cmd.Wait()
	return proc, nil
}

// Apply is a no-op for the wrapper variant: constraints were already
// encoded in the exec arguments.
func (s *wrapperStrategy) Apply(plan *Plan, proc *Process, st *ApplyState) (bool, error) {
	st.TargetPID = proc.PID
	st.AffinityDone = true
	st.PriorityDone = true
	return true, nil
}
