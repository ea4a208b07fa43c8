// Package shortcut creates desktop launchers that invoke pinrun with a
// saved profile name.
package shortcut

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// DesktopEntry renders a freedesktop .desktop file that launches the
// given profile through the pinrun executable.
func DesktopEntry(name, exePath, targetPath string) string {
	return fmt.Sprintf("[Desktop Entry]\n"+
		"Version=1.0\n"+
		"Name=%s\n"+
		"Comment=Launch %s with CPU affinity\n"+
		"Exec=\"%s\" %s\n"+
		"Terminal=false\n"+
		"Type=Application\n",
		name, targetPath, exePath, name)
}

// BatchScript renders a Windows batch file that launches the given
// profile through the pinrun executable.
func BatchScript(name, exePath string) string {
	return fmt.Sprintf("@echo off\r\n\"%s\" %s\r\n", exePath, name)
}

// Dir returns the user's Desktop directory.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locating home directory: %w", err)
	}
	return filepath.Join(home, "Desktop"), nil
}

// Create writes a shortcut for the named profile into dir and returns
// the path of the written file. On Windows the shortcut is a .bat
// script, elsewhere an executable .desktop entry.
func Create(dir, name, exePath, targetPath string) (string, error) {
	if runtime.GOOS == "windows" {
		path := filepath.Join(dir, name+".bat")
		if err := os.WriteFile(path, []byte(BatchScript(name, exePath)), 0o644); err != nil {
			return "", fmt.Errorf("writing shortcut: %w", err)
		}
		return path, nil
	}
	path := filepath.Join(dir, name+".desktop")
	if err := os.WriteFile(path, []byte(DesktopEntry(name, exePath, targetPath)), 0o755); err != nil {
		return "", fmt.Errorf("writing shortcut: %w", err)
	}
	return path, nil
}
