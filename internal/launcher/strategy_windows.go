//go:build windows

package launcher

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/hochfrequenz/pinrun/internal/affinity"
	"github.com/hochfrequenz/pinrun/internal/domain"
)

var (
	modkernel32                = windows.NewLazySystemDLL("kernel32.dll")
	procSetProcessAffinityMask = modkernel32.NewProc("SetProcessAffinityMask")
)

// directStrategy spawns the target unconstrained, then sets affinity and
// priority through a handle to the running process.
type directStrategy struct{}

func newStrategy() Strategy {
	return &directStrategy{}
}

func (s *directStrategy) PostSpawn() bool { return true }

// priorityClass maps each level to exactly one native priority class.
func priorityClass(p domain.PriorityLevel) uint32 {
	switch p {
	case domain.PriorityIdle:
		return windows.IDLE_PRIORITY_CLASS
	case domain.PriorityBelowNormal:
		return windows.BELOW_NORMAL_PRIORITY_CLASS
	case domain.PriorityAboveNormal:
		return windows.ABOVE_NORMAL_PRIORITY_CLASS
	case domain.PriorityHigh:
		return windows.HIGH_PRIORITY_CLASS
	case domain.PriorityRealtime:
		return windows.REALTIME_PRIORITY_CLASS
	default:
		return windows.NORMAL_PRIORITY_CLASS
	}
}

func (s *directStrategy) Plan(p *domain.LaunchProfile) (*Plan, error) {
	mask, ignored, err := affinity.Mask(p.CPUs, affinity.WordWidth)
	if err != nil {
		return nil, err
	}

	plan := &Plan{
		Profile: p,
		Mask:    mask,
		Ignored: ignored,
	}
	if p.Priority.IsSet() {
		plan.Summary = fmt.Sprintf("Launching %q with CPU affinity mask 0x%X, priority %s",
			p.Path, mask, p.Priority)
	} else {
		plan.Summary = fmt.Sprintf("Launching %q with CPU affinity mask 0x%X", p.Path, mask)
	}
	return plan, nil
}

func (s *directStrategy) Spawn(plan *Plan, args []string) (*Process, error) {
	cmd := exec.Command(plan.Profile.Path, args...)
	cmd.Dir = filepath.Dir(plan.Profile.Path)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Start(); err != nil {
		return nil, &domain.SpawnError{Path: plan.Profile.Path, Err: err}
	}

	proc := &Process{PID: cmd.Process.Pid, cmd: cmd}
	go cmd.Wait()
	return proc, nil
}

// Apply sets the unconfirmed subset of {affinity, priority} on the current
// target. When the spawned process turns out to be a launcher that already
// exited, it retargets to the successor process before applying.
func (s *directStrategy) Apply(plan *Plan, proc *Process, st *ApplyState) (bool, error) {
	if st.TargetPID == 0 {
		st.TargetPID = proc.PID
	}

	if !isAlive(st.TargetPID) {
		successor := findSuccessor(proc.PID, filepath.Base(plan.Profile.Path))
		if successor == 0 {
			// Launcher exited and the real process has not appeared yet.
			return false, nil
		}
		fmt.Printf("Process %d exited, retargeting to %d\n", st.TargetPID, successor)
		st.Retarget(successor)
	}

	handle, err := windows.OpenProcess(
		windows.PROCESS_SET_INFORMATION|windows.PROCESS_QUERY_INFORMATION,
		false, uint32(st.TargetPID))
	if err != nil {
		return false, fmt.Errorf("opening process %d: %w", st.TargetPID, err)
	}
	defer windows.CloseHandle(handle)

	if !st.AffinityDone {
		if err := setProcessAffinityMask(handle, uintptr(plan.Mask)); err != nil {
			return false, fmt.Errorf("setting affinity mask: %w", err)
		}
		st.AffinityDone = true
	}

	if plan.Profile.Priority.IsSet() && !st.PriorityDone {
		if err := windows.SetPriorityClass(handle, priorityClass(plan.Profile.Priority)); err != nil {
			return false, fmt.Errorf("setting priority class: %w", err)
		}
		st.PriorityDone = true
	} else if !plan.Profile.Priority.IsSet() {
		st.PriorityDone = true
	}

	return st.AffinityDone && st.PriorityDone, nil
}

func setProcessAffinityMask(h windows.Handle, mask uintptr) error {
	r1, _, e1 := procSetProcessAffinityMask.Call(uintptr(h), mask)
	if r1 == 0 {
		return e1
	}
	return nil
}

// isAlive reports whether the process is still running.
func isAlive(pid int) bool {
	handle, err := windows.OpenProcess(windows.PROCESS_QUERY_LIMITED_INFORMATION, false, uint32(pid))
	if err != nil {
		return false
	}
	defer windows.CloseHandle(handle)

	var code uint32
	if err := windows.GetExitCodeProcess(handle, &code); err != nil {
		return false
	}
	return code == uint32(windows.STILL_ACTIVE)
}

// findSuccessor scans the process list for the process that replaced the
// spawned one: a child of the original PID, or failing that another
// process running the same image.
func findSuccessor(origPID int, image string) int {
	snapshot, err := windows.CreateToolhelp32Snapshot(windows.TH32CS_SNAPPROCESS, 0)
	if err != nil {
		return 0
	}
	defer windows.CloseHandle(snapshot)

	var entry windows.ProcessEntry32
	entry.Size = uint32(unsafe.Sizeof(entry))

	sameImage := 0
	if err := windows.Process32First(snapshot, &entry); err != nil {
		return 0
	}
	for {
		pid := int(entry.ProcessID)
		if pid != origPID && pid != os.Getpid() {
			if int(entry.ParentProcessID) == origPID {
				return pid
			}
			exe := windows.UTF16ToString(entry.ExeFile[:])
			if strings.EqualFold(exe, image) && sameImage == 0 {
				sameImage = pid
			}
		}
		if err := windows.Process32Next(snapshot, &entry); err != nil {
			break
		}
	}
	return sameImage
}
