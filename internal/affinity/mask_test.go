package affinity

import (
	"errors"
	"testing"
)

func TestMask(t *testing.T) {
	mask, ignored, err := Mask([]int{0, 1}, 4)
	if err != nil {
		t.Fatalf("Mask() error = %v", err)
	}
	if mask != 0b0011 {
		t.Errorf("Mask({0,1}, 4) = %#b, want 0b0011", mask)
	}
	if len(ignored) != 0 {
		t.Errorf("ignored = %v, want none", ignored)
	}
}

func TestMask_IgnoresOutOfRange(t *testing.T) {
	mask, ignored, err := Mask([]int{1, 5, 63, 200}, 64)
	if err != nil {
		t.Fatalf("Mask() error = %v", err)
	}
	want := uint64(1<<1 | 1<<5 | 1<<63)
	if mask != want {
		t.Errorf("Mask() = %#x, want %#x", mask, want)
	}
	if len(ignored) != 1 || ignored[0] != 200 {
		t.Errorf("ignored = %v, want [200]", ignored)
	}
}

func TestMask_AllOutOfRange(t *testing.T) {
	mask, _, err := Mask([]int{200}, 64)
	if !errors.Is(err, ErrInvalidMask) {
		t.Errorf("Mask({200}, 64) error = %v, want ErrInvalidMask", err)
	}
	if mask != 0 {
		t.Errorf("mask = %#x, want 0", mask)
	}
}

func TestMask_NegativeIndexIgnored(t *testing.T) {
	mask, ignored, err := Mask([]int{-1, 2}, 8)
	if err != nil {
		t.Fatalf("Mask() error = %v", err)
	}
	if mask != 1<<2 {
		t.Errorf("Mask() = %#x, want %#x", mask, uint64(1<<2))
	}
	if len(ignored) != 1 || ignored[0] != -1 {
		t.Errorf("ignored = %v, want [-1]", ignored)
	}
}

func TestList(t *testing.T) {
	if got := List([]int{0, 2, 5}); got != "0,2,5" {
		t.Errorf("List({0,2,5}) = %q, want \"0,2,5\"", got)
	}
	if got := List(nil); got != "" {
		t.Errorf("List(nil) = %q, want empty", got)
	}
}
