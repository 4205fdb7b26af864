package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

const validConfig = `name: efa_focuser
serial_port: /dev/focuser
min_steps: 0
max_steps: 100000
`

func TestLoadValid(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "focusd.yaml", validConfig)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Name != "efa_focuser" {
		t.Errorf("Name = %q, want %q", cfg.Name, "efa_focuser")
	}
	if cfg.SerialPort != "/dev/focuser" {
		t.Errorf("SerialPort = %q, want %q", cfg.SerialPort, "/dev/focuser")
	}
	if cfg.GetMaxSteps() != 100000 {
		t.Errorf("GetMaxSteps() = %d, want 100000", cfg.GetMaxSteps())
	}
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "focusd.yaml", "name: foc\nserial_port: /dev/ttyUSB0\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := cfg.PollInterval(); got != DefaultPollInterval {
		t.Errorf("PollInterval() = %v, want %v", got, DefaultPollInterval)
	}
	if got := cfg.RequestTimeout(); got != DefaultRequestTimeout {
		t.Errorf("RequestTimeout() = %v, want %v", got, DefaultRequestTimeout)
	}
	if got := cfg.MoveTimeout(); got != DefaultMoveTimeout {
		t.Errorf("MoveTimeout() = %v, want %v", got, DefaultMoveTimeout)
	}
	if got := cfg.GetMaxSteps(); got != DefaultMaxSteps {
		t.Errorf("GetMaxSteps() = %d, want %d", got, DefaultMaxSteps)
	}
}

func TestLoadOverrides(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "focusd.yaml",
		"name: foc\nserial_port: /dev/ttyUSB0\npoll_interval_ms: 250\nmove_timeout_s: 60\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := cfg.PollInterval(); got != 250*time.Millisecond {
		t.Errorf("PollInterval() = %v, want 250ms", got)
	}
	if got := cfg.MoveTimeout(); got != time.Minute {
		t.Errorf("MoveTimeout() = %v, want 1m", got)
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"missing name", "serial_port: /dev/x\n", "name is required"},
		{"bad name", "name: 'a b'\nserial_port: /dev/x\n", "alphanumeric"},
		{"missing serial port", "name: foc\n", "serial_port is required"},
		{"negative min", "name: foc\nserial_port: /dev/x\nmin_steps: -1\n", "min_steps"},
		{"limits inverted", "name: foc\nserial_port: /dev/x\nmin_steps: 100\nmax_steps: 50\n", "max_steps"},
		{"unknown field", "name: foc\nserial_port: /dev/x\nbogus: 1\n", "bogus"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, t.TempDir(), "focusd.yaml", tt.content)
			_, err := Load(path)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestDisabledChannelNeedsNoSerialPort(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "focusd.yaml", "name: foc\ndisabled: true\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.Disabled {
		t.Error("Disabled = false, want true")
	}
}

func TestResolveOverride(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "custom.yaml", validConfig)

	cfg, err := Resolve(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Name != "efa_focuser" {
		t.Errorf("Name = %q, want %q", cfg.Name, "efa_focuser")
	}
}

func TestResolveSingleFile(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "site.yaml", validConfig)
	t.Setenv("FOCUSD_CONFIG_ROOT", dir)

	cfg, err := Resolve("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Name != "efa_focuser" {
		t.Errorf("Name = %q, want %q", cfg.Name, "efa_focuser")
	}
}

func TestResolveNoFiles(t *testing.T) {
	t.Setenv("FOCUSD_CONFIG_ROOT", t.TempDir())

	if _, err := Resolve(""); err == nil {
		t.Fatal("expected error for empty config root")
	}
}

func TestResolveMultipleFiles(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "one.yaml", validConfig)
	writeConfig(t, dir, "two.yaml", validConfig)
	t.Setenv("FOCUSD_CONFIG_ROOT", dir)

	_, err := Resolve("")
	if err == nil {
		t.Fatal("expected error for ambiguous config root")
	}
	if !strings.Contains(err.Error(), "2 config files") {
		t.Errorf("error %q does not mention the match count", err)
	}
}

func TestGetPathsHonorsFocusdHome(t *testing.T) {
	base := t.TempDir()
	t.Setenv("FOCUSD_HOME", base)

	paths, err := GetPaths("efa_focuser")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if paths.Socket != filepath.Join(base, "efa_focuser.sock") {
		t.Errorf("Socket = %q, want under %q", paths.Socket, base)
	}
	if paths.PID != filepath.Join(base, "efa_focuser.pid") {
		t.Errorf("PID = %q, want under %q", paths.PID, base)
	}

	if err := paths.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	if _, err := os.Stat(paths.Logs); err != nil {
		t.Errorf("logs dir missing: %v", err)
	}
}
