// Package retry drives a bounded, exponentially backed-off application of
// process constraints against a target that may not be stable yet.
package retry

import (
	"fmt"
	"os"
	"time"
)

const (
	// DefaultBudget is the attempt budget when the profile does not
	// supply one.
	DefaultBudget = 5
	// DefaultInitialDelay is the delay before the first attempt. The
	// pre-attempt delay gives a launcher process time to exit and hand
	// off to its real child before any attribute is read or set.
	DefaultInitialDelay = 100 * time.Millisecond
	// DelayCap bounds the backoff schedule.
	DelayCap = 1000 * time.Millisecond
)

// Op is one idempotent constraint-application attempt. It returns true
// when the constraints are fully applied, false when the target is not
// ready yet, and an error on unexpected OS-level failure. attempt counts
// from 1.
type Op func(attempt int) (bool, error)

// Controller retries an Op up to Budget times, sleeping before every
// attempt (including the first) by min(InitialDelay*2^(k-1), Cap).
type Controller struct {
	Budget       int
	InitialDelay time.Duration
	Cap          time.Duration
	Sleep        func(time.Duration) // injected for tests; nil means time.Sleep
}

// New returns a Controller with the documented defaults. budget <= 0
// selects DefaultBudget.
func New(budget int) *Controller {
	if budget <= 0 {
		budget = DefaultBudget
	}
	return &Controller{
		Budget:       budget,
		InitialDelay: DefaultInitialDelay,
		Cap:          DelayCap,
	}
}

// Delay returns the backoff delay applied before attempt k (k >= 1).
func (c *Controller) Delay(attempt int) time.Duration {
	d := c.InitialDelay
	for i := 1; i < attempt; i++ {
		d *= 2
		if d >= c.Cap {
			return c.Cap
		}
	}
	if d > c.Cap {
		return c.Cap
	}
	return d
}

// Do runs op until it reports success, fails on the final attempt, or the
// budget is exhausted. achieved=false with a nil error means the budget
// ran out while the target was still not ready; it is a terminal partial
// failure, not a crash.
func (c *Controller) Do(op Op) (achieved bool, err error) {
	sleep := c.Sleep
	if sleep == nil {
		sleep = time.Sleep
	}

	for attempt := 1; attempt <= c.Budget; attempt++ {
		sleep(c.Delay(attempt))

		done, err := op(attempt)
		if err != nil {
			if attempt == c.Budget {
				return false, err
			}
			fmt.Fprintf(os.Stderr, "Warning: attempt %d/%d failed: %v\n", attempt, c.Budget, err)
			continue
		}
		if done {
			return true, nil
		}
	}
	return false, nil
}
