package config

import (
	"os"
	"path/filepath"
)

// Paths holds the runtime files for one daemon instance. Everything lives
// under a base directory (default ~/.focusd, override FOCUSD_HOME) so
// tests and multi-instance setups can relocate the whole tree.
type Paths struct {
	Home      string
	Socket    string
	PID       string
	Logs      string
	DaemonLog string
}

// GetPaths returns the runtime paths for a daemon instance name.
func GetPaths(name string) (*Paths, error) {
	base := os.Getenv("FOCUSD_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".focusd")
	}

	logsDir := filepath.Join(base, "logs")
	return &Paths{
		Home:      base,
		Socket:    filepath.Join(base, name+".sock"),
		PID:       filepath.Join(base, name+".pid"),
		Logs:      logsDir,
		DaemonLog: filepath.Join(logsDir, name+".log"),
	}, nil
}

// EnsureDirectories creates the required directories if they don't exist.
func (p *Paths) EnsureDirectories() error {
	for _, dir := range []string{p.Home, p.Logs} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return nil
}
