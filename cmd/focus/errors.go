package main

import "github.com/openobs/focusd/internal/focuser"

// statusError carries a remote command status through the error path so
// main can turn it into the process exit code.
type statusError struct {
	status focuser.CommandStatus
}

func (e *statusError) Error() string { return e.status.Message() }

// result maps a command status onto the error return convention: success
// is nil, everything else travels as a statusError.
func result(status focuser.CommandStatus) error {
	if status == focuser.Succeeded {
		return nil
	}
	return &statusError{status: status}
}

// exitCode truncates a command status to the low byte, the POSIX exit
// status range: -1 becomes 255, -101 becomes 155.
func exitCode(status focuser.CommandStatus) int {
	return int(byte(status))
}
