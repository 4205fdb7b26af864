// Package focuser defines the shared status vocabulary for the focuser
// daemon and its clients: the channel lifecycle states and the command
// result codes. Both sides import this package so they never disagree on
// what a code means.
package focuser

import "fmt"

// Status represents the lifecycle state of the focuser channel.
//
// The values form a total order: everything below Idle means the channel
// cannot report position or temperature. Callers rely on comparisons like
// `status >= Idle`, so the numeric values are part of the contract.
type Status int

const (
	// Disabled means the channel is administratively disabled in the config.
	Disabled Status = iota
	// Disconnected means the serial channel is closed.
	Disconnected
	// Initializing means the serial channel is being opened and probed.
	Initializing
	// Idle means the channel is open and the motor is stationary.
	Idle
	// Moving means a goto is in progress.
	Moving
	// Homing means a homing cycle is in progress.
	Homing
)

var statusLabels = map[Status]string{
	Disabled:     "DISABLED",
	Disconnected: "OFFLINE",
	Initializing: "INITIALIZING",
	Idle:         "IDLE",
	Moving:       "MOVING",
	Homing:       "HOMING",
}

// Label returns the short stable label for a status value.
func (s Status) Label() string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return fmt.Sprintf("UNKNOWN(%d)", int(s))
}

// Ready reports whether the channel is open: position, temperature and fan
// fields are only meaningful when Ready.
func (s Status) Ready() bool {
	return s >= Idle
}

// InMotion reports whether the motor is actuating.
func (s Status) InMotion() bool {
	return s == Moving || s == Homing
}

func (s Status) String() string { return s.Label() }
