package efa

import "fmt"

// GotoState reports the progress of a MTR_GOTO_POS2 command.
type GotoState int

const (
	// GotoRunning means the motor has not reached the target yet.
	GotoRunning GotoState = iota
	// GotoDone means the goto completed at the target.
	GotoDone
	// GotoAborted means the controller abandoned the goto.
	GotoAborted
)

const (
	gotoOverDone    = 0xFF
	gotoOverAborted = 0xFE
)

// Channel is one EFA focuser unit reachable over a serial session.
type Channel struct {
	session *Session
}

// Open opens the focuser channel on the given serial port.
func Open(portName string) (*Channel, error) {
	session, err := OpenSession(portName)
	if err != nil {
		return nil, err
	}
	return &Channel{session: session}, nil
}

// NewChannel wraps an existing session. Used by tests and the simulator.
func NewChannel(session *Session) *Channel {
	return &Channel{session: session}
}

// Close closes the serial connection.
func (c *Channel) Close() error {
	return c.session.Close()
}

// Version reads the focus controller firmware version.
func (c *Channel) Version() (string, error) {
	resp, err := c.session.SendReceive(NewPacket(AddrFocTemp, CmdGetVersion))
	if err != nil {
		return "", err
	}
	if len(resp.Data) < 2 {
		return "", &ChannelError{Op: ChannelOpRead, Err: fmt.Errorf("version payload too short: % X", resp.Data)}
	}
	return fmt.Sprintf("%d.%d", resp.Data[0], resp.Data[1]), nil
}

// Position reads the current encoder position in steps.
func (c *Channel) Position() (int, error) {
	resp, err := c.session.SendReceive(NewPacket(AddrFocTemp, CmdMtrGetPos))
	if err != nil {
		return 0, err
	}
	return resp.SignedValue(), nil
}

// StartGoto commands a move to the absolute target position. Completion is
// observed by polling GotoState.
func (c *Channel) StartGoto(target int) error {
	_, err := c.session.SendReceive(NewPacket(AddrFocTemp, CmdMtrGotoPos2, EncodePosition(target)...))
	return err
}

// GotoState polls whether the last goto has finished.
func (c *Channel) GotoState() (GotoState, error) {
	resp, err := c.session.SendReceive(NewPacket(AddrFocTemp, CmdMtrGotoOver))
	if err != nil {
		return GotoRunning, err
	}
	switch resp.Value() {
	case gotoOverDone:
		return GotoDone, nil
	case gotoOverAborted:
		return GotoAborted, nil
	}
	return GotoRunning, nil
}

// Halt stops the motor immediately by commanding a zero track rate.
func (c *Channel) Halt() error {
	_, err := c.session.SendReceive(NewPacket(AddrFocTemp, CmdMtrPTrack, EncodePosition(0)...))
	return err
}

// SetEncoder rewrites the encoder counter without moving the motor.
func (c *Channel) SetEncoder(steps int) error {
	_, err := c.session.SendReceive(NewPacket(AddrFocTemp, CmdMtrOffsetCnt, EncodePosition(steps)...))
	return err
}

// Temperature reads one temperature sensor in degrees Celsius. Returns nil
// when no sensor is fitted at that address.
func (c *Channel) Temperature(sensor byte) (*float64, error) {
	resp, err := c.session.SendReceive(NewPacket(AddrFocTemp, CmdTempGet, sensor))
	if err != nil {
		return nil, err
	}
	if len(resp.Data) < 2 {
		return nil, &ChannelError{Op: ChannelOpRead, Err: fmt.Errorf("temperature payload too short: % X", resp.Data)}
	}
	if resp.Data[0] == 0x7F && resp.Data[1] == 0x7F {
		return nil, nil // no sensor at this address
	}
	celsius := rawToCelsius(resp.Data[0], resp.Data[1])
	return &celsius, nil
}

// Fans reads the OTA fan state from the rotator/fan controller.
func (c *Channel) Fans() (bool, error) {
	resp, err := c.session.SendReceive(NewPacket(AddrRotFan, CmdFansGet))
	if err != nil {
		return false, err
	}
	return resp.Value() != 0, nil
}

// SetFans switches the OTA fans on or off.
func (c *Channel) SetFans(enabled bool) error {
	var value byte
	if enabled {
		value = 1
	}
	_, err := c.session.SendReceive(NewPacket(AddrRotFan, CmdFansSet, value))
	return err
}

// rawToCelsius converts an LSB-first raw reading in 16ths of a degree.
func rawToCelsius(lsb, msb byte) float64 {
	raw := int(msb)<<8 | int(lsb)
	if raw&0x8000 != 0 {
		raw -= 0x10000
	}
	return float64(raw) / 16.0
}
