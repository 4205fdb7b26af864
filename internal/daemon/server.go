package daemon

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"os"

	"github.com/openobs/focusd/internal/focuser"
	"github.com/openobs/focusd/internal/protocol"
)

// Server exposes the daemon's operations over a Unix socket. It owns no
// state of its own; it translates requests into Daemon method calls and
// command statuses back into response lines.
type Server struct {
	daemon     *Daemon
	socketPath string
	listener   net.Listener
	logger     *slog.Logger
}

// NewServer creates a new daemon server.
func NewServer(daemon *Daemon, socketPath string, logger *slog.Logger) *Server {
	return &Server{
		daemon:     daemon,
		socketPath: socketPath,
		logger:     logger,
	}
}

// Start starts listening on the Unix socket.
func (s *Server) Start(ctx context.Context) error {
	// Remove existing socket file
	if err := os.Remove(s.socketPath); err != nil && !os.IsNotExist(err) {
		return err
	}

	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return err
	}
	s.listener = listener

	// Socket permissions: owner-only
	if err := os.Chmod(s.socketPath, 0600); err != nil {
		listener.Close()
		return err
	}

	go s.acceptLoop(ctx)
	return nil
}

// Stop stops the server.
func (s *Server) Stop() error {
	if s.listener != nil {
		return s.listener.Close()
	}
	return nil
}

func (s *Server) acceptLoop(ctx context.Context) {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return
			}
			select {
			case <-ctx.Done():
				return
			default:
				continue
			}
		}
		go s.handleConnection(conn)
	}
}

func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	reader := bufio.NewReader(conn)
	line, err := reader.ReadBytes('\n')
	if err != nil {
		return
	}

	var req protocol.Request
	if err := json.Unmarshal(line, &req); err != nil {
		s.writeResponse(conn, protocol.NewStatusResponse(focuser.InternalError))
		return
	}

	s.writeResponse(conn, s.handleRequest(&req))
}

// handleRequest dispatches one request. Any panic in a handler collapses
// to InternalError; no unmapped fault may cross the socket boundary.
func (s *Server) handleRequest(req *protocol.Request) (resp *protocol.Response) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("panic in command handler", "command", req.Command, "panic", r)
			resp = protocol.NewStatusResponse(focuser.InternalError)
		}
	}()

	switch req.Command {
	case protocol.CmdStatus:
		return protocol.NewReportResponse(s.daemon.Report())
	case protocol.CmdSetFocus:
		return s.handleSetFocus(req)
	case protocol.CmdStop:
		return protocol.NewStatusResponse(s.daemon.Stop())
	case protocol.CmdZero:
		return protocol.NewStatusResponse(s.daemon.Zero())
	case protocol.CmdFans:
		return s.handleFans(req)
	case protocol.CmdInitialize:
		return protocol.NewStatusResponse(s.daemon.Initialize())
	case protocol.CmdShutdown:
		return protocol.NewStatusResponse(s.daemon.Shutdown())
	default:
		s.logger.Warn("unknown command", "command", req.Command)
		return protocol.NewStatusResponse(focuser.InternalError)
	}
}

func (s *Server) handleSetFocus(req *protocol.Request) *protocol.Response {
	position, ok := intArg(req.Args, "position")
	if !ok {
		return protocol.NewStatusResponse(focuser.InternalError)
	}
	offset, _ := req.Args["offset"].(bool)
	return protocol.NewStatusResponse(s.daemon.SetFocus(position, offset))
}

func (s *Server) handleFans(req *protocol.Request) *protocol.Response {
	enabled, ok := req.Args["enabled"].(bool)
	if !ok {
		return protocol.NewStatusResponse(focuser.InternalError)
	}
	return protocol.NewStatusResponse(s.daemon.EnableFans(enabled))
}

// intArg extracts an integer argument; JSON numbers arrive as float64.
func intArg(args map[string]any, key string) (int, bool) {
	switch v := args[key].(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	}
	return 0, false
}

func (s *Server) writeResponse(conn net.Conn, resp *protocol.Response) {
	data, err := json.Marshal(resp)
	if err != nil {
		return
	}
	data = append(data, '\n')
	_, _ = conn.Write(data)
}
