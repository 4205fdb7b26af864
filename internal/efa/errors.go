package efa

import (
	"errors"
	"fmt"
)

// ErrTimeout is returned when the EFA does not answer within the read timeout.
var ErrTimeout = errors.New("no response from focuser")

// ErrChecksum is returned when a received frame fails checksum verification.
var ErrChecksum = errors.New("checksum mismatch")

// ChannelOp identifies the channel operation that failed.
type ChannelOp string

const (
	ChannelOpOpen  ChannelOp = "open"
	ChannelOpRead  ChannelOp = "read"
	ChannelOpWrite ChannelOp = "write"
)

// ChannelError indicates a serial channel operation failed.
type ChannelError struct {
	Op  ChannelOp
	Err error
}

func (e *ChannelError) Error() string {
	return fmt.Sprintf("%s focuser channel: %v", e.Op, e.Err)
}

func (e *ChannelError) Unwrap() error {
	return e.Err
}

// IsChannelError reports whether err indicates a serial channel failure.
func IsChannelError(err error) bool {
	var ce *ChannelError
	return errors.As(err, &ce)
}
