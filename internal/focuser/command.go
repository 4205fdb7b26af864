package focuser

import "fmt"

// CommandStatus is the result code returned by every remote operation.
// Zero is success; negative values identify specific failure kinds.
type CommandStatus int

const (
	// Succeeded indicates the operation completed.
	Succeeded CommandStatus = 0
	// Failed indicates the error was already reported locally; clients
	// print no further message for this code.
	Failed CommandStatus = -1
	// InternalError is the collapse code for any unanticipated daemon fault.
	InternalError CommandStatus = -2
	// InvalidState indicates the operation is forbidden in the current
	// channel state.
	InvalidState CommandStatus = -3
	// Busy indicates a motion was requested while one is already active.
	Busy CommandStatus = -4
	// HardwareError indicates a serial channel read or write failure.
	HardwareError CommandStatus = -5
	// PositionOutOfRange indicates the requested target lies outside the
	// configured slew limits.
	PositionOutOfRange CommandStatus = -6
	// CommunicationError indicates the daemon process could not be reached.
	// Only the client boundary produces this code; the daemon never does.
	CommunicationError CommandStatus = -101
)

var commandMessages = map[CommandStatus]string{
	Succeeded:          "Command succeeded",
	Failed:             "Error already reported",
	InternalError:      "Internal daemon error",
	InvalidState:       "Focuser is not in a valid state for this command",
	Busy:               "Focuser is already moving",
	HardwareError:      "Unable to communicate with focuser hardware",
	PositionOutOfRange: "Requested position is outside the focuser limits",
	CommunicationError: "Unable to communicate with focuser daemon",
}

// Message returns the registered message for a command status. Unknown
// codes get a generic fallback; clients never fabricate their own text.
func (c CommandStatus) Message() string {
	if msg, ok := commandMessages[c]; ok {
		return msg
	}
	return fmt.Sprintf("Error %d", int(c))
}

// Silent reports whether clients should suppress the message for this code:
// success needs none, and Failed means the error was already printed.
func (c CommandStatus) Silent() bool {
	return c == Succeeded || c == Failed
}

func (c CommandStatus) String() string { return c.Message() }
