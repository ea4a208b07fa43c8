//go:build !windows

package launcher

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hochfrequenz/pinrun/internal/domain"
)

func TestSpawn_MissingNiceWrapper(t *testing.T) {
	dir := t.TempDir()
	fake := filepath.Join(dir, "taskset")
	if err := os.WriteFile(fake, []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PATH", dir)

	s := &wrapperStrategy{}
	plan := &Plan{
		Profile: &domain.LaunchProfile{Path: fake, Priority: domain.PriorityHigh},
		CPUList: "0",
		Nice:    Niceness(domain.PriorityHigh),
	}

	_, err := s.Spawn(plan, nil)
	if err == nil {
		t.Fatal("Spawn succeeded with nice missing from PATH")
	}
	var serr *domain.SpawnError
	if !errors.As(err, &serr) {
		t.Fatalf("Spawn error = %T, want *domain.SpawnError", err)
	}
	if !strings.Contains(err.Error(), "nice") {
		t.Errorf("Spawn error = %q, want mention of the missing wrapper", err)
	}
}

func TestSpawn_MissingTasksetWrapper(t *testing.T) {
	t.Setenv("PATH", t.TempDir())

	s := &wrapperStrategy{}
	plan := &Plan{
		Profile: &domain.LaunchProfile{Path: "/opt/game"},
		CPUList: "0",
	}

	_, err := s.Spawn(plan, nil)
	if err == nil {
		t.Fatal("Spawn succeeded with taskset missing from PATH")
	}
	if !strings.Contains(err.Error(), "taskset") {
		t.Errorf("Spawn error = %q, want mention of the missing wrapper", err)
	}
}
