package protocol

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/openobs/focusd/internal/focuser"
)

func TestNewRequest(t *testing.T) {
	tests := []struct {
		name    string
		command string
		args    map[string]any
	}{
		{
			name:    "status command without args",
			command: CmdStatus,
			args:    nil,
		},
		{
			name:    "set_focus command with position args",
			command: CmdSetFocus,
			args:    map[string]any{"position": 500, "offset": false},
		},
		{
			name:    "fans command with enabled arg",
			command: CmdFans,
			args:    map[string]any{"enabled": true},
		},
		{
			name:    "stop command",
			command: CmdStop,
			args:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := NewRequest(tt.command, tt.args)

			if req.Command != tt.command {
				t.Errorf("Command = %q, want %q", req.Command, tt.command)
			}
			if tt.args == nil && req.Args != nil {
				t.Errorf("Args = %v, want nil", req.Args)
			}
			for k, v := range tt.args {
				if req.Args[k] != v {
					t.Errorf("Args[%q] = %v, want %v", k, req.Args[k], v)
				}
			}
		})
	}
}

func TestStatusResponseRoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		status focuser.CommandStatus
	}{
		{"success", focuser.Succeeded},
		{"busy", focuser.Busy},
		{"invalid state", focuser.InvalidState},
		{"hardware error", focuser.HardwareError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(NewStatusResponse(tt.status))
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}

			var resp Response
			if err := json.Unmarshal(data, &resp); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}

			if resp.Status != tt.status {
				t.Errorf("Status = %d, want %d", resp.Status, tt.status)
			}
			if resp.Report != nil {
				t.Errorf("Report = %v, want nil", resp.Report)
			}
		})
	}
}

func TestReportRoundTrip(t *testing.T) {
	primary := 4.5
	date := time.Date(2024, 3, 10, 22, 15, 0, 0, time.UTC)

	report := &Report{
		Date:               date,
		Status:             focuser.Idle,
		Label:              focuser.Idle.Label(),
		CurrentSteps:       450,
		TargetSteps:        450,
		PrimaryTemperature: &primary,
		AmbientTemperature: nil,
		FansEnabled:        true,
	}

	data, err := json.Marshal(NewReportResponse(report))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var resp Response
	if err := json.Unmarshal(data, &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	got := resp.Report
	if got == nil {
		t.Fatal("Report is nil")
	}
	if !got.Date.Equal(date) {
		t.Errorf("Date = %v, want %v", got.Date, date)
	}
	if got.Status != focuser.Idle {
		t.Errorf("Status = %d, want %d", got.Status, focuser.Idle)
	}
	if got.CurrentSteps != 450 || got.TargetSteps != 450 {
		t.Errorf("steps = %d/%d, want 450/450", got.CurrentSteps, got.TargetSteps)
	}
	if got.PrimaryTemperature == nil || *got.PrimaryTemperature != primary {
		t.Errorf("PrimaryTemperature = %v, want %v", got.PrimaryTemperature, primary)
	}
	if got.AmbientTemperature != nil {
		t.Errorf("AmbientTemperature = %v, want nil", *got.AmbientTemperature)
	}
	if !got.FansEnabled {
		t.Error("FansEnabled = false, want true")
	}
}

func TestReportAbsentTemperatureSerializesAsNull(t *testing.T) {
	report := &Report{
		Date:   time.Now().UTC(),
		Status: focuser.Idle,
		Label:  focuser.Idle.Label(),
	}

	data, err := json.Marshal(report)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	// Absent sensors must serialize as explicit nulls, not be omitted.
	if !strings.Contains(string(data), `"primary_temperature":null`) {
		t.Errorf("missing null primary_temperature in %s", data)
	}
	if !strings.Contains(string(data), `"ambient_temperature":null`) {
		t.Errorf("missing null ambient_temperature in %s", data)
	}
}
