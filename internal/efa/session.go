package efa

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/tarm/serial"
)

const (
	// BaudRate is fixed for the EFA kit.
	BaudRate = 19200
	// ReadTimeout bounds a single byte read from the bus.
	ReadTimeout = time.Second
)

// Session owns one serial connection to the AUX bus and serializes access
// to it: the poll loop, the move loop and side-channel commands must never
// interleave packets.
type Session struct {
	mu   sync.Mutex
	port io.ReadWriteCloser
}

// OpenSession opens the serial port for an EFA kit.
func OpenSession(portName string) (*Session, error) {
	port, err := serial.OpenPort(&serial.Config{
		Name:        portName,
		Baud:        BaudRate,
		ReadTimeout: ReadTimeout,
	})
	if err != nil {
		return nil, &ChannelError{Op: ChannelOpOpen, Err: err}
	}
	return &Session{port: port}, nil
}

// NewSession wraps an existing transport. Used by tests and the simulator.
func NewSession(port io.ReadWriteCloser) *Session {
	return &Session{port: port}
}

// Close closes the underlying port.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.port.Close()
}

// SendReceive writes a packet and returns the first response frame
// addressed to this computer. The EFA kit echoes traffic on the shared
// bus, so frames addressed elsewhere (including our own echo) are skipped.
func (s *Session) SendReceive(req Packet) (Packet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.port.Write(req.Encode()); err != nil {
		return Packet{}, &ChannelError{Op: ChannelOpWrite, Err: err}
	}

	// Bound the scan so a chattering bus cannot wedge us forever.
	for i := 0; i < 16; i++ {
		resp, err := s.readPacket()
		if err != nil {
			return Packet{}, err
		}
		if resp.Receiver == AddrPC {
			return resp, nil
		}
	}
	return Packet{}, &ChannelError{Op: ChannelOpRead, Err: ErrTimeout}
}

// readPacket scans for SOM and decodes one frame, verifying its checksum.
func (s *Session) readPacket() (Packet, error) {
	// Scan for start of message, discarding bus noise.
	for i := 0; i < 64; i++ {
		b, err := s.readByte()
		if err != nil {
			return Packet{}, err
		}
		if b == SOM {
			return s.readBody()
		}
	}
	return Packet{}, &ChannelError{Op: ChannelOpRead, Err: ErrTimeout}
}

func (s *Session) readBody() (Packet, error) {
	length, err := s.readByte()
	if err != nil {
		return Packet{}, err
	}
	if length < 3 {
		return Packet{}, &ChannelError{Op: ChannelOpRead, Err: fmt.Errorf("short frame: len=%d", length)}
	}

	fields := make([]byte, 0, int(length)+1)
	fields = append(fields, length)
	for i := 0; i < int(length)+1; i++ { // SRC RCV CMD data... CHK
		b, err := s.readByte()
		if err != nil {
			return Packet{}, err
		}
		fields = append(fields, b)
	}

	if checksum(fields[:len(fields)-1]) != fields[len(fields)-1] {
		return Packet{}, &ChannelError{Op: ChannelOpRead, Err: ErrChecksum}
	}

	return Packet{
		Source:   fields[1],
		Receiver: fields[2],
		Command:  fields[3],
		Data:     fields[4 : len(fields)-1],
	}, nil
}

func (s *Session) readByte() (byte, error) {
	buf := make([]byte, 1)
	n, err := s.port.Read(buf)
	if n == 1 {
		return buf[0], nil
	}
	if err == nil || err == io.EOF {
		// tarm/serial signals a read timeout as a zero-length read.
		err = ErrTimeout
	}
	return 0, &ChannelError{Op: ChannelOpRead, Err: err}
}
