package main

import (
	"fmt"
	"os"
	"os/exec"
	"syscall"
)

type LogsCmd struct {
	Follow bool `short:"f" help:"Follow log output in real-time (tail -f)"`
}

func (c *LogsCmd) Run(g *globals) error {
	cfg, err := loadConfig(g)
	if err != nil {
		return err
	}
	paths, err := instancePaths(cfg)
	if err != nil {
		return err
	}

	if _, err := os.Stat(paths.DaemonLog); os.IsNotExist(err) {
		return fmt.Errorf("log file not found: %s\nHint: Start the daemon first with 'focus start'", paths.DaemonLog)
	}

	args := []string{"tail"}
	if c.Follow {
		args = append(args, "-f")
	}
	args = append(args, paths.DaemonLog)

	tailPath, err := exec.LookPath("tail")
	if err != nil {
		return fmt.Errorf("tail command not found in PATH (install coreutils or similar)")
	}

	// Replace the current process with tail
	return syscall.Exec(tailPath, args, os.Environ())
}
