package domain

import "testing"

func TestParsePriority_RoundTrip(t *testing.T) {
	levels := []PriorityLevel{
		PriorityIdle, PriorityBelowNormal, PriorityNormal,
		PriorityAboveNormal, PriorityHigh, PriorityRealtime,
	}
	for _, level := range levels {
		parsed, err := ParsePriority(level.String())
		if err != nil {
			t.Errorf("ParsePriority(%q) error = %v", level.String(), err)
		}
		if parsed != level {
			t.Errorf("ParsePriority(%q) = %v, want %v", level.String(), parsed, level)
		}
	}
}

func TestParsePriority_Empty(t *testing.T) {
	p, err := ParsePriority("")
	if err != nil {
		t.Fatalf("ParsePriority(\"\") error = %v", err)
	}
	if p != PriorityUnset {
		t.Errorf("ParsePriority(\"\") = %v, want unset", p)
	}
	if p.IsSet() {
		t.Error("PriorityUnset.IsSet() = true, want false")
	}
}

func TestParsePriority_Unknown(t *testing.T) {
	if _, err := ParsePriority("turbo"); err == nil {
		t.Error("ParsePriority(\"turbo\") error = nil, want error")
	}
}

func TestRequiresElevation(t *testing.T) {
	gated := map[PriorityLevel]bool{
		PriorityUnset:       false,
		PriorityIdle:        false,
		PriorityBelowNormal: false,
		PriorityNormal:      false,
		PriorityAboveNormal: false,
		PriorityHigh:        true,
		PriorityRealtime:    true,
	}
	for level, want := range gated {
		if got := level.RequiresElevation(); got != want {
			t.Errorf("%v.RequiresElevation() = %v, want %v", level, got, want)
		}
	}
}
