package notify

import (
	"strings"
	"testing"

	"github.com/hochfrequenz/pinrun/internal/domain"
)

func TestForOutcome(t *testing.T) {
	tests := []struct {
		name     string
		outcome  domain.Outcome
		wantType NotificationType
		wantIn   string
	}{
		{
			name:     "full launch",
			outcome:  domain.Outcome{Kind: domain.LaunchedFully, PID: 4242},
			wantType: NotifySuccess,
			wantIn:   "pid 4242",
		},
		{
			name:     "partial launch",
			outcome:  domain.Outcome{Kind: domain.LaunchedPartially, Reason: "affinity not achieved"},
			wantType: NotifyWarning,
			wantIn:   "reduced settings",
		},
		{
			name:     "elevation declined",
			outcome:  domain.Outcome{Kind: domain.ElevationDeclined, Reason: "declined by user"},
			wantType: NotifyError,
			wantIn:   "not launched",
		},
		{
			name:     "validation failed",
			outcome:  domain.Outcome{Kind: domain.ValidationFailed, Reason: "path does not exist"},
			wantType: NotifyError,
			wantIn:   "path does not exist",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := ForOutcome("game", tt.outcome)
			if n.Type != tt.wantType {
				t.Errorf("Type = %v, want %v", n.Type, tt.wantType)
			}
			if !strings.Contains(n.Message, tt.wantIn) {
				t.Errorf("Message = %q, want substring %q", n.Message, tt.wantIn)
			}
			if !strings.Contains(n.Message, "game") {
				t.Errorf("Message = %q, want profile name", n.Message)
			}
		})
	}
}

func TestDesktopNotifierDisabled(t *testing.T) {
	d := NewDesktopNotifier(false)
	if err := d.Send(Notification{Title: "x", Message: "y"}); err != nil {
		t.Errorf("disabled Send returned %v, want nil", err)
	}
}

func TestIconForType(t *testing.T) {
	if got := IconForType(NotifyError); got != "dialog-error" {
		t.Errorf("IconForType(NotifyError) = %q, want dialog-error", got)
	}
	if got := IconForType(NotifyInfo); got != "dialog-information" {
		t.Errorf("IconForType(NotifyInfo) = %q, want dialog-information", got)
	}
}
