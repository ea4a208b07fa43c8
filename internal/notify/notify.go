// Package notify announces launch outcomes on the desktop.
package notify

import (
	"fmt"

	"github.com/hochfrequenz/pinrun/internal/domain"
)

// NotificationType represents the severity of a notification
type NotificationType int

const (
	NotifyInfo NotificationType = iota
	NotifySuccess
	NotifyWarning
	NotifyError
)

// Notification represents a notification to be sent
type Notification struct {
	Title   string
	Message string
	Type    NotificationType
}

// Notifier is the interface for sending notifications
type Notifier interface {
	Send(n Notification) error
}

// NoopNotifier does nothing (for testing or disabled notifications)
type NoopNotifier struct{}

func (NoopNotifier) Send(n Notification) error { return nil }

// ForOutcome builds a notification describing how a launch ended.
func ForOutcome(profileName string, out domain.Outcome) Notification {
	switch out.Kind {
	case domain.LaunchedFully:
		return Notification{
			Title:   "pinrun",
			Message: fmt.Sprintf("%s launched (pid %d)", profileName, out.PID),
			Type:    NotifySuccess,
		}
	case domain.LaunchedPartially:
		return Notification{
			Title:   "pinrun",
			Message: fmt.Sprintf("%s launched with reduced settings: %s", profileName, out.Reason),
			Type:    NotifyWarning,
		}
	case domain.ElevationDeclined:
		return Notification{
			Title:   "pinrun",
			Message: fmt.Sprintf("%s not launched: %s", profileName, out.Reason),
			Type:    NotifyError,
		}
	default:
		return Notification{
			Title:   "pinrun",
			Message: fmt.Sprintf("%s: %s", profileName, out.Reason),
			Type:    NotifyError,
		}
	}
}
