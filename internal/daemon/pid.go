package daemon

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"syscall"
)

var (
	// ErrPIDFileNotFound is returned when the PID file does not exist.
	ErrPIDFileNotFound = errors.New("PID file not found")
	// ErrInvalidPIDFile is returned when the PID file contains invalid data.
	ErrInvalidPIDFile = errors.New("invalid PID file")
)

// ProcessStatus describes whether a daemon instance appears to be running.
type ProcessStatus struct {
	Running      bool
	PID          int
	SocketExists bool
}

// WritePIDFile writes the current process ID to the specified file.
func WritePIDFile(path string) error {
	data := []byte(strconv.Itoa(os.Getpid()))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write PID file: %w", err)
	}
	return nil
}

// ReadPIDFile reads the process ID from the specified file.
func ReadPIDFile(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, ErrPIDFileNotFound
		}
		return 0, fmt.Errorf("read PID file: %w", err)
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidPIDFile, err)
	}
	if pid <= 0 {
		return 0, fmt.Errorf("%w: invalid PID %d", ErrInvalidPIDFile, pid)
	}
	return pid, nil
}

// IsProcessRunning checks if a process with the given PID is running,
// using signal 0 so nothing is actually delivered.
func IsProcessRunning(pid int) (bool, error) {
	if pid <= 0 {
		return false, fmt.Errorf("invalid PID: %d", pid)
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		return false, fmt.Errorf("find process: %w", err)
	}

	err = process.Signal(syscall.Signal(0))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, syscall.ESRCH) {
		return false, nil
	}
	if errors.Is(err, syscall.EPERM) {
		return true, nil
	}
	if err.Error() == "os: process already finished" {
		return false, nil
	}
	return false, fmt.Errorf("check process: %w", err)
}

// IsSocketAvailable checks if the daemon socket accepts connections.
func IsSocketAvailable(socketPath string) bool {
	conn, err := net.Dial("unix", socketPath)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}

// GetProcessStatus combines the PID file and socket into one view of
// whether the daemon instance is up.
func GetProcessStatus(pidPath, socketPath string) (*ProcessStatus, error) {
	status := &ProcessStatus{}
	status.SocketExists = IsSocketAvailable(socketPath)

	pid, err := ReadPIDFile(pidPath)
	if err != nil {
		if errors.Is(err, ErrPIDFileNotFound) {
			return status, nil
		}
		return status, fmt.Errorf("read PID: %w", err)
	}
	status.PID = pid

	running, err := IsProcessRunning(pid)
	if err != nil {
		return status, fmt.Errorf("check process %d: %w", pid, err)
	}
	status.Running = running

	if status.SocketExists && !status.Running {
		return status, fmt.Errorf("socket exists but process %d not running (stale socket?)", pid)
	}
	return status, nil
}

// RemovePIDFile removes the PID file. Safe when the file is already gone.
func RemovePIDFile(path string) error {
	err := os.Remove(path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove PID file: %w", err)
	}
	return nil
}
