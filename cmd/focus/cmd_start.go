package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"os/signal"
	"syscall"
	"time"

	"github.com/openobs/focusd/internal/config"
	"github.com/openobs/focusd/internal/daemon"
	"github.com/openobs/focusd/internal/logging"
	"github.com/openobs/focusd/internal/ui"
)

type StartCmd struct {
	Daemon bool `name:"daemon" hidden:"" help:"Run daemon process (internal)"`
	Debug  bool `help:"Log at debug level"`
}

func (c *StartCmd) Run(g *globals) error {
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
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	if status.Running {
		ui.PrintInfo(fmt.Sprintf("Daemon is already running (PID: %d)", status.PID))
		return nil
	}

	// Clean up stale files if any
	if status.SocketExists && !status.Running {
		ui.PrintWarning("Cleaning up stale socket...")
		os.Remove(paths.Socket)
	}
	if status.PID > 0 && !status.Running {
		daemon.RemovePIDFile(paths.PID)
	}

	if err := paths.EnsureDirectories(); err != nil {
		return fmt.Errorf("create directories: %w", err)
	}

	if c.Daemon {
		return c.runDaemon(cfg, paths)
	}
	return c.startBackground(g, paths)
}

func (c *StartCmd) startBackground(g *globals, paths *config.Paths) error {
	// Re-exec ourselves with the internal daemon flag
	args := []string{"start", "--daemon"}
	if c.Debug {
		args = append(args, "--debug")
	}
	if g.Config != "" {
		args = append(args, "--config", g.Config)
	}
	cmd := exec.Command(os.Args[0], args...)
	cmd.Env = os.Environ()

	// Detach from the controlling terminal
	cmd.Stdin = nil
	cmd.Stdout = nil
	cmd.Stderr = nil
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setsid: true,
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start daemon: %w", err)
	}

	// Wait for the daemon to become ready (max 5 seconds)
	for i := 0; i < 50; i++ {
		time.Sleep(100 * time.Millisecond)
		if daemon.IsSocketAvailable(paths.Socket) {
			ui.PrintSuccess(fmt.Sprintf("Daemon started (PID: %d)", cmd.Process.Pid))
			ui.PrintInfo(fmt.Sprintf("Logs: %s", paths.DaemonLog))
			return nil
		}
	}

	return fmt.Errorf("daemon did not start within 5 seconds, check logs: %s", paths.DaemonLog)
}

func (c *StartCmd) runDaemon(cfg *config.Config, paths *config.Paths) error {
	logWriter := logging.NewRotatingWriter(logging.DefaultConfig(paths.DaemonLog))
	defer logWriter.Close()

	level := slog.LevelInfo
	if c.Debug {
		level = slog.LevelDebug
	}
	logger := logging.NewLeveledLogger(logWriter, level)

	if err := daemon.WritePIDFile(paths.PID); err != nil {
		return fmt.Errorf("write PID file: %w", err)
	}
	defer daemon.RemovePIDFile(paths.PID)

	d := daemon.New(cfg, logger)
	server := daemon.NewServer(d, paths.Socket, logger)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := server.Start(ctx); err != nil {
		return fmt.Errorf("start server: %w", err)
	}

	<-ctx.Done()

	if err := server.Stop(); err != nil {
		return fmt.Errorf("stop server: %w", err)
	}
	d.Shutdown()
	return nil
}
