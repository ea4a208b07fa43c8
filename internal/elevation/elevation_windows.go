//go:build windows

package elevation

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"golang.org/x/sys/windows"

	"github.com/hochfrequenz/pinrun/internal/domain"
)

// ForPlatform returns the negotiator wired to the Windows token probe and
// the UAC re-invocation.
func ForPlatform(store Store) *Negotiator {
	return &Negotiator{
		Store:      store,
		IsElevated: tokenIsElevated,
		Relaunch:   relaunchElevated,
	}
}

func tokenIsElevated() bool {
	return windows.GetCurrentProcessToken().IsElevated()
}

// relaunchElevated re-executes the current binary through the UAC prompt.
// It does not wait for the elevated child.
func relaunchElevated(name string, cleanup bool, args []string) error {
	exe, err := os.Executable()
	if err != nil {
		return &domain.ElevationError{Cause: domain.CauseBinaryMissing, Err: err}
	}
	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return &domain.ElevationError{Cause: domain.CauseBinaryMissing, Err: err}
	}

	// Flags must precede the keyword: the root command stops flag
	// parsing at the first positional argument.
	var argv []string
	if cleanup {
		argv = append(argv, "--cleanup-handoff")
	}
	argv = append(argv, name)
	argv = append(argv, args...)
	argLine := windows.ComposeCommandLine(argv)

	verb, _ := windows.UTF16PtrFromString("runas")
	file, _ := windows.UTF16PtrFromString(exe)
	params, _ := windows.UTF16PtrFromString(argLine)

	if err := windows.ShellExecute(0, verb, file, params, nil, windows.SW_NORMAL); err != nil {
		return &domain.ElevationError{Cause: categorize(err), Err: err}
	}
	return nil
}

// categorize maps ShellExecute failures onto the causes the fallback
// prompt distinguishes.
func categorize(err error) domain.ElevationCause {
	var errno syscall.Errno
	if errors.As(err, &errno) {
		switch errno {
		case windows.ERROR_CANCELLED:
			return domain.CauseDeclined
		case windows.ERROR_FILE_NOT_FOUND, windows.ERROR_PATH_NOT_FOUND:
			return domain.CauseBinaryMissing
		case windows.ERROR_NOT_ENOUGH_MEMORY, windows.ERROR_OUTOFMEMORY:
			return domain.CauseResources
		}
	}
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "cancel") {
		return domain.CauseDeclined
	}
	return domain.CauseUnknown
}
