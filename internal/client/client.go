// Package client provides a client for communicating with the daemon.
package client

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/openobs/focusd/internal/focuser"
	"github.com/openobs/focusd/internal/protocol"
)

// Client communicates with the daemon via Unix socket. Each call dials a
// fresh connection, sends one request line and reads one response line, so
// the connection is released on every exit path.
type Client struct {
	socketPath string
	timeout    time.Duration
}

// New creates a new daemon client. timeout bounds each quick call end to
// end; the blocking move call passes its own explicit timeout instead.
func New(socketPath string, timeout time.Duration) *Client {
	return &Client{socketPath: socketPath, timeout: timeout}
}

// Send sends a request and returns the response. A zero timeout means the
// call may block indefinitely, governed by client-side cancellation.
func (c *Client) Send(req *protocol.Request, timeout time.Duration) (*protocol.Response, error) {
	conn, err := net.Dial("unix", c.socketPath)
	if err != nil {
		return nil, fmt.Errorf("connect to daemon: %w", err)
	}
	defer conn.Close()

	if timeout > 0 {
		if err := conn.SetDeadline(time.Now().Add(timeout)); err != nil {
			return nil, fmt.Errorf("set deadline: %w", err)
		}
	}

	data, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	data = append(data, '\n')
	if _, err := conn.Write(data); err != nil {
		return nil, fmt.Errorf("write request: %w", err)
	}

	reader := bufio.NewReader(conn)
	line, err := reader.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var resp protocol.Response
	if err := json.Unmarshal(line, &resp); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}

	return &resp, nil
}

// sendStatus issues a request and extracts the command status.
func (c *Client) sendStatus(req *protocol.Request, timeout time.Duration) (focuser.CommandStatus, error) {
	resp, err := c.Send(req, timeout)
	if err != nil {
		return focuser.CommunicationError, err
	}
	return resp.Status, nil
}

// Report queries the daemon for a status snapshot. Returns nil without an
// error only if the daemon answered with no report payload.
func (c *Client) Report() (*protocol.Report, error) {
	resp, err := c.Send(protocol.NewRequest(protocol.CmdStatus, nil), c.timeout)
	if err != nil {
		return nil, err
	}
	return resp.Report, nil
}

// SetFocus commands a move to position (absolute, or relative to the
// current position when offset is set). The call blocks until the motion
// completes, is stopped, or fails; no transport timeout applies.
func (c *Client) SetFocus(position int, offset bool) (focuser.CommandStatus, error) {
	return c.sendStatus(protocol.NewRequest(protocol.CmdSetFocus, map[string]any{
		"position": position,
		"offset":   offset,
	}), 0)
}

// Stop halts any in-progress motion.
func (c *Client) Stop() (focuser.CommandStatus, error) {
	return c.sendStatus(protocol.NewRequest(protocol.CmdStop, nil), c.timeout)
}

// Zero redefines the current position as the home position.
func (c *Client) Zero() (focuser.CommandStatus, error) {
	return c.sendStatus(protocol.NewRequest(protocol.CmdZero, nil), c.timeout)
}

// EnableFans switches the OTA fans.
func (c *Client) EnableFans(enabled bool) (focuser.CommandStatus, error) {
	return c.sendStatus(protocol.NewRequest(protocol.CmdFans, map[string]any{
		"enabled": enabled,
	}), c.timeout)
}

// Initialize opens the hardware channel.
func (c *Client) Initialize() (focuser.CommandStatus, error) {
	return c.sendStatus(protocol.NewRequest(protocol.CmdInitialize, nil), c.timeout)
}

// Shutdown closes the hardware channel.
func (c *Client) Shutdown() (focuser.CommandStatus, error) {
	return c.sendStatus(protocol.NewRequest(protocol.CmdShutdown, nil), c.timeout)
}
