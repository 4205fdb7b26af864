package main

import (
	"errors"
	"fmt"
	"os"
	"syscall"
	"time"

	"github.com/openobs/focusd/internal/daemon"
	"github.com/openobs/focusd/internal/ui"
)

// QuitCmd terminates the daemon process via its pid file.
type QuitCmd struct{}

func (c *QuitCmd) Run(g *globals) error {
	cfg, err := loadConfig(g)
	if err != nil {
		return err
	}
	paths, err := instancePaths(cfg)
	if err != nil {
		return err
	}

	status, err := daemon.GetProcessStatus(paths.PID, paths.Socket)
	if err != nil && !errors.Is(err, daemon.ErrPIDFileNotFound) {
		if status.SocketExists {
			fmt.Println("Warning: stale daemon state detected")
			fmt.Printf("Manual cleanup may be needed: rm %s\n", paths.Socket)
		}
		return fmt.Errorf("check daemon status: %w", err)
	}

	if !status.Running {
		ui.PrintInfo("Daemon is not running")
		daemon.RemovePIDFile(paths.PID)
		if status.SocketExists {
			os.Remove(paths.Socket)
		}
		return nil
	}

	process, err := os.FindProcess(status.PID)
	if err != nil {
		return fmt.Errorf("find process: %w", err)
	}

	ui.PrintInfo("Stopping daemon...")
	if err := process.Signal(syscall.SIGTERM); err != nil {
		return fmt.Errorf("send SIGTERM: %w", err)
	}

	// Wait for the process to exit (max 10 seconds)
	for i := 0; i < 100; i++ {
		time.Sleep(100 * time.Millisecond)
		running, err := daemon.IsProcessRunning(status.PID)
		if err != nil {
			return fmt.Errorf("check process: %w", err)
		}
		if !running {
			ui.PrintSuccess("Daemon stopped")
			daemon.RemovePIDFile(paths.PID)
			return nil
		}
	}

	ui.PrintWarning("Daemon did not stop gracefully, forcing...")
	if err := process.Kill(); err != nil {
		return fmt.Errorf("kill daemon: %w", err)
	}

	daemon.RemovePIDFile(paths.PID)
	ui.PrintSuccess("Daemon stopped")
	return nil
}
