// Package affinity computes platform CPU-affinity bitmasks from logical
// CPU index sets.
package affinity

import (
	"errors"
	"strconv"
	"strings"
)

// WordWidth is the width in bits of the platform affinity mask.
const WordWidth = strconv.IntSize

// ErrInvalidMask is returned when no usable CPU remains after dropping
// out-of-range indices.
var ErrInvalidMask = errors.New("affinity mask is empty: no valid CPUs specified")

// Mask builds a width-bit affinity mask with bit i set for every CPU index
// i present in cpus and below width. Indices at or above width are dropped
// and returned in ignored for the caller to warn about; they never touch
// other bits. A zero result fails with ErrInvalidMask.
func Mask(cpus []int, width int) (mask uint64, ignored []int, err error) {
	for _, cpu := range cpus {
		if cpu < 0 || cpu >= width || cpu >= 64 {
			ignored = append(ignored, cpu)
			continue
		}
		mask |= 1 << cpu
	}
	if mask == 0 {
		return 0, ignored, ErrInvalidMask
	}
	return mask, ignored, nil
}

// List renders the comma-separated CPU list consumed by taskset.
func List(cpus []int) string {
	parts := make([]string, len(cpus))
	for i, cpu := range cpus {
		parts[i] = strconv.Itoa(cpu)
	}
	return strings.Join(parts, ",")
}
