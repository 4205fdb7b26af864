// Package protocol defines the JSON protocol for daemon communication.
package protocol

import (
	"time"

	"github.com/openobs/focusd/internal/focuser"
)

// Request represents a command request to the daemon.
type Request struct {
	Command string         `json:"command"`
	Args    map[string]any `json:"args,omitempty"`
}

// Response represents a response from the daemon. Status carries the
// command result code; Report is set only for status queries.
type Response struct {
	Status focuser.CommandStatus `json:"status"`
	Report *Report               `json:"report,omitempty"`
}

// Report is a snapshot of the focuser channel. Position, temperature and
// fan fields are populated only when the channel status is at least Idle;
// below that the report carries the status alone.
type Report struct {
	Date         time.Time      `json:"date"`
	Status       focuser.Status `json:"status"`
	Label        string         `json:"label"`
	CurrentSteps int            `json:"current_steps"`
	TargetSteps  int            `json:"target_steps"`
	// Temperatures are nil when the sensor is not fitted or not read yet.
	PrimaryTemperature *float64 `json:"primary_temperature"`
	AmbientTemperature *float64 `json:"ambient_temperature"`
	FansEnabled        bool     `json:"fans_enabled"`
}

// Command names
const (
	CmdStatus     = "status"
	CmdSetFocus   = "set_focus"
	CmdStop       = "stop"
	CmdZero       = "zero"
	CmdFans       = "fans"
	CmdInitialize = "initialize"
	CmdShutdown   = "shutdown"
)

// NewRequest creates a new request with the given command and args.
func NewRequest(command string, args map[string]any) *Request {
	return &Request{
		Command: command,
		Args:    args,
	}
}

// NewStatusResponse creates a response carrying only a result code.
func NewStatusResponse(status focuser.CommandStatus) *Response {
	return &Response{Status: status}
}

// NewReportResponse creates a successful response carrying a report.
func NewReportResponse(report *Report) *Response {
	return &Response{
		Status: focuser.Succeeded,
		Report: report,
	}
}
