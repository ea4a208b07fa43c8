package retry

import (
	"errors"
	"testing"
	"time"
)

// scripted returns an Op that replays the given outcomes in order.
func scripted(t *testing.T, outcomes []bool, errs []error) (Op, *int) {
	t.Helper()
	calls := 0
	return func(attempt int) (bool, error) {
		if attempt != calls+1 {
			t.Errorf("attempt = %d, want %d", attempt, calls+1)
		}
		i := calls
		calls++
		var err error
		if errs != nil {
			err = errs[i]
		}
		return outcomes[i], err
	}, &calls
}

func recordingController(budget int, delays *[]time.Duration) *Controller {
	c := New(budget)
	c.Sleep = func(d time.Duration) { *delays = append(*delays, d) }
	return c
}

func TestDo_SucceedsFirstAttempt(t *testing.T) {
	var delays []time.Duration
	c := recordingController(5, &delays)
	op, calls := scripted(t, []bool{true}, nil)

	achieved, err := c.Do(op)
	if err != nil || !achieved {
		t.Fatalf("Do() = (%v, %v), want (true, nil)", achieved, err)
	}
	if *calls != 1 {
		t.Errorf("calls = %d, want 1", *calls)
	}
	if len(delays) != 1 || delays[0] != 100*time.Millisecond {
		t.Errorf("delays = %v, want [100ms]", delays)
	}
}

func TestDo_StopsAfterSuccess(t *testing.T) {
	var delays []time.Duration
	c := recordingController(5, &delays)
	op, calls := scripted(t, []bool{false, false, true, true, true}, nil)

	achieved, err := c.Do(op)
	if err != nil || !achieved {
		t.Fatalf("Do() = (%v, %v), want (true, nil)", achieved, err)
	}
	if *calls != 3 {
		t.Errorf("calls = %d, want 3 (no attempt after success)", *calls)
	}
}

func TestDo_BudgetExhausted(t *testing.T) {
	var delays []time.Duration
	c := recordingController(3, &delays)
	op, calls := scripted(t, []bool{false, false, false}, nil)

	achieved, err := c.Do(op)
	if err != nil {
		t.Fatalf("Do() error = %v, want nil", err)
	}
	if achieved {
		t.Error("achieved = true, want false (not achieved is not an error)")
	}
	if *calls != 3 {
		t.Errorf("calls = %d, want 3", *calls)
	}
}

func TestDo_ErrorRetriedUntilFinalAttempt(t *testing.T) {
	var delays []time.Duration
	c := recordingController(3, &delays)
	boom := errors.New("boom")
	op, calls := scripted(t, []bool{false, false, false}, []error{boom, boom, boom})

	_, err := c.Do(op)
	if !errors.Is(err, boom) {
		t.Fatalf("Do() error = %v, want boom surfaced on final attempt", err)
	}
	if *calls != 3 {
		t.Errorf("calls = %d, want 3 (earlier errors retried)", *calls)
	}
}

func TestDo_ErrorThenSuccess(t *testing.T) {
	var delays []time.Duration
	c := recordingController(3, &delays)
	boom := errors.New("boom")
	op, _ := scripted(t, []bool{false, true, false}, []error{boom, nil, nil})

	achieved, err := c.Do(op)
	if err != nil || !achieved {
		t.Errorf("Do() = (%v, %v), want (true, nil)", achieved, err)
	}
}

func TestDelay_Schedule(t *testing.T) {
	c := New(7)
	want := []time.Duration{
		100 * time.Millisecond,
		200 * time.Millisecond,
		400 * time.Millisecond,
		800 * time.Millisecond,
		1000 * time.Millisecond,
		1000 * time.Millisecond,
		1000 * time.Millisecond,
	}
	for i, w := range want {
		if got := c.Delay(i + 1); got != w {
			t.Errorf("Delay(%d) = %v, want %v", i+1, got, w)
		}
	}
}

func TestNew_DefaultBudget(t *testing.T) {
	if c := New(0); c.Budget != DefaultBudget {
		t.Errorf("New(0).Budget = %d, want %d", c.Budget, DefaultBudget)
	}
	if c := New(8); c.Budget != 8 {
		t.Errorf("New(8).Budget = %d, want 8", c.Budget)
	}
}
