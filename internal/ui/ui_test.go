package ui

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"

	"github.com/openobs/focusd/internal/focuser"
	"github.com/openobs/focusd/internal/protocol"
)

// capture redirects Output for the duration of fn and returns what was
// printed, with colors disabled so assertions see plain text.
func capture(t *testing.T, fn func()) string {
	t.Helper()

	prev := color.NoColor
	color.NoColor = true
	var buf bytes.Buffer
	prevOut := Output
	Output = &buf
	defer func() {
		Output = prevOut
		color.NoColor = prev
	}()
	fn()
	return buf.String()
}

func TestFormatSteps(t *testing.T) {
	tests := []struct {
		steps int
		want  string
	}{
		{0, "0000000"},
		{450, "0000450"},
		{100000, "0100000"},
		{1234567, "1234567"},
	}

	for _, tt := range tests {
		if got := FormatSteps(tt.steps); got != tt.want {
			t.Errorf("FormatSteps(%d) = %q, want %q", tt.steps, got, tt.want)
		}
	}
}

func TestFormatTemperature(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	celsius := 4.25
	if got := FormatTemperature(&celsius); got != "4.2 °C" {
		t.Errorf("FormatTemperature(4.25) = %q", got)
	}
	if got := FormatTemperature(nil); got != "N/A" {
		t.Errorf("FormatTemperature(nil) = %q, want N/A", got)
	}
}

func TestPrintReportIdle(t *testing.T) {
	primary := 4.5
	report := &protocol.Report{
		Date:               time.Now().UTC(),
		Status:             focuser.Idle,
		Label:              focuser.Idle.Label(),
		CurrentSteps:       0,
		TargetSteps:        0,
		PrimaryTemperature: &primary,
		FansEnabled:        false,
	}

	out := capture(t, func() { PrintReport(report) })

	for _, want := range []string{"IDLE", "0000000", "4.5 °C", "N/A", "DISABLED"} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q missing %q", out, want)
		}
	}
}

func TestPrintReportOfflineOmitsFields(t *testing.T) {
	report := &protocol.Report{
		Date:   time.Now().UTC(),
		Status: focuser.Disconnected,
		Label:  focuser.Disconnected.Label(),
	}

	out := capture(t, func() { PrintReport(report) })

	if !strings.Contains(out, "OFFLINE") {
		t.Errorf("output %q missing OFFLINE", out)
	}
	if strings.Contains(out, "Position") || strings.Contains(out, "fans") {
		t.Errorf("offline report should carry status alone, got %q", out)
	}
}

func TestStatusBadgeLabels(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	for _, s := range []focuser.Status{focuser.Disabled, focuser.Disconnected, focuser.Idle, focuser.Moving} {
		if got := StatusBadge(s); got != s.Label() {
			t.Errorf("StatusBadge(%v) = %q, want %q", s, got, s.Label())
		}
	}
}
