package launcher

import (
	"strconv"

	"github.com/hochfrequenz/pinrun/internal/domain"
)

// Niceness maps a priority level to the niceness scalar handed to the
// nice wrapper. More negative means higher priority; the mapping is
// monotonic over the level order. Negative values commonly need elevated
// rights, but that is advisory only and the launch degrades rather than
// gates.
func Niceness(p domain.PriorityLevel) int {
	switch p {
	case domain.PriorityIdle:
		return 19
	case domain.PriorityBelowNormal:
		return 10
	case domain.PriorityNormal:
		return 0
	case domain.PriorityAboveNormal:
		return -5
	case domain.PriorityHigh:
		return -10
	case domain.PriorityRealtime:
		return -20
	default:
		return 0
	}
}

// WrapperArgv composes the wrapper command line for the delegation
// variant: taskset constrains affinity at spawn time, and when a priority
// is set a nice wrapper is composed around it.
//
//	nice -n <nice> taskset -c <cpus> <path> <args...>
func WrapperArgv(plan *Plan, args []string) []string {
	argv := []string{"taskset", "-c", plan.CPUList, plan.Profile.Path}
	argv = append(argv, args...)
	if plan.Profile.Priority.IsSet() {
		argv = append([]string{"nice", "-n", strconv.Itoa(plan.Nice)}, argv...)
	}
	return argv
}

// WrapperBinaries lists every wrapper the composed command line depends
// on, so availability can be checked before anything is spawned.
func WrapperBinaries(plan *Plan) []string {
	binaries := []string{"taskset"}
	if plan.Profile.Priority.IsSet() {
		binaries = append(binaries, "nice")
	}
	return binaries
}
