package domain

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeExecutable(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "target")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"), 0755); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestProfileValidate(t *testing.T) {
	p := &LaunchProfile{Path: writeExecutable(t), CPUs: []int{0, 1}}
	if err := p.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}
}

func TestProfileValidate_MissingPath(t *testing.T) {
	p := &LaunchProfile{Path: "/nonexistent/binary", CPUs: []int{0}}
	err := p.Validate()
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Validate() = %v, want *ValidationError", err)
	}
	if verr.Field != "path" {
		t.Errorf("Field = %q, want path", verr.Field)
	}
}

func TestProfileValidate_EmptyCPUSet(t *testing.T) {
	p := &LaunchProfile{Path: writeExecutable(t)}
	err := p.Validate()
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Validate() = %v, want *ValidationError", err)
	}
	if verr.Field != "cpus" {
		t.Errorf("Field = %q, want cpus", verr.Field)
	}
}

func TestProfileValidate_NegativeCPU(t *testing.T) {
	p := &LaunchProfile{Path: writeExecutable(t), CPUs: []int{0, -1}}
	if err := p.Validate(); err == nil {
		t.Error("Validate() = nil, want error for negative CPU index")
	}
}
