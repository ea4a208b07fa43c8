package domain

import "fmt"

// PriorityLevel is a platform-agnostic process scheduling priority.
// Levels are ordered from lowest to highest preference; each level maps
// to exactly one native priority class (Windows) or niceness value (Unix)
// inside the launcher package.
type PriorityLevel int

const (
	PriorityUnset PriorityLevel = iota // no priority requested
	PriorityIdle
	PriorityBelowNormal
	PriorityNormal
	PriorityAboveNormal
	PriorityHigh
	PriorityRealtime
)

// String implements fmt.Stringer
func (p PriorityLevel) String() string {
	switch p {
	case PriorityUnset:
		return "unset"
	case PriorityIdle:
		return "idle"
	case PriorityBelowNormal:
		return "below-normal"
	case PriorityNormal:
		return "normal"
	case PriorityAboveNormal:
		return "above-normal"
	case PriorityHigh:
		return "high"
	case PriorityRealtime:
		return "realtime"
	default:
		return "<unknown>"
	}
}

// ParsePriority parses a priority name as stored in profiles and typed on
// the command line. The empty string parses to PriorityUnset.
func ParsePriority(s string) (PriorityLevel, error) {
	switch s {
	case "":
		return PriorityUnset, nil
	case "idle":
		return PriorityIdle, nil
	case "below-normal":
		return PriorityBelowNormal, nil
	case "normal":
		return PriorityNormal, nil
	case "above-normal":
		return PriorityAboveNormal, nil
	case "high":
		return PriorityHigh, nil
	case "realtime":
		return PriorityRealtime, nil
	default:
		return PriorityUnset, fmt.Errorf("unknown priority %q (idle, below-normal, normal, above-normal, high, realtime)", s)
	}
}

// RequiresElevation reports whether setting this level needs elevated
// rights on platforms that gate high scheduling classes. Only the top two
// levels are gated; on Unix the answer is advisory (negative niceness
// usually, but not always, needs root) and the launcher degrades instead
// of gating.
func (p PriorityLevel) RequiresElevation() bool {
	return p == PriorityHigh || p == PriorityRealtime
}

// IsSet reports whether a priority was actually requested.
func (p PriorityLevel) IsSet() bool {
	return p != PriorityUnset
}
