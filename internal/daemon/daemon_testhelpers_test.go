package daemon

import (
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/openobs/focusd/internal/config"
	"github.com/openobs/focusd/internal/efa"
	"github.com/openobs/focusd/internal/logging"
)

// fakeChannel simulates an EFA focuser: a goto advances the position a
// fixed number of steps per poll until the target is reached.
type fakeChannel struct {
	mu      sync.Mutex
	pos     int
	target  int
	moving  bool
	step    int // steps advanced per Position() call while moving
	fans    bool
	version string

	halted   bool
	closed   bool
	encoders []int // values passed to SetEncoder

	failAll   bool // every operation errors
	abortNext bool // next GotoState reports a controller abort
	haltErr   bool // Halt errors while the rest of the channel answers
}

var errFakeChannel = errors.New("simulated channel failure")

func newFakeChannel() *fakeChannel {
	return &fakeChannel{step: 1 << 20, version: "1.9"}
}

func (f *fakeChannel) fail(on bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failAll = on
}

func (f *fakeChannel) position() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pos
}

func (f *fakeChannel) Version() (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll {
		return "", errFakeChannel
	}
	return f.version, nil
}

func (f *fakeChannel) Position() (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll {
		return 0, errFakeChannel
	}
	if f.moving {
		switch {
		case f.pos+f.step < f.target:
			f.pos += f.step
		case f.pos-f.step > f.target:
			f.pos -= f.step
		default:
			f.pos = f.target
			f.moving = false
		}
	}
	return f.pos, nil
}

func (f *fakeChannel) StartGoto(target int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll {
		return errFakeChannel
	}
	f.target = target
	f.moving = true
	return nil
}

func (f *fakeChannel) GotoState() (efa.GotoState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll {
		return efa.GotoRunning, errFakeChannel
	}
	if f.abortNext {
		f.abortNext = false
		f.moving = false
		return efa.GotoAborted, nil
	}
	if f.moving {
		return efa.GotoRunning, nil
	}
	return efa.GotoDone, nil
}

func (f *fakeChannel) Halt() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll || f.haltErr {
		return errFakeChannel
	}
	f.moving = false
	f.halted = true
	return nil
}

func (f *fakeChannel) SetEncoder(steps int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll {
		return errFakeChannel
	}
	f.pos = steps
	f.encoders = append(f.encoders, steps)
	return nil
}

func (f *fakeChannel) Temperature(sensor byte) (*float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll {
		return nil, errFakeChannel
	}
	if sensor == efa.SensorPrimary {
		celsius := 4.5
		return &celsius, nil
	}
	return nil, nil // ambient sensor not fitted
}

func (f *fakeChannel) Fans() (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll {
		return false, errFakeChannel
	}
	return f.fans, nil
}

func (f *fakeChannel) SetFans(enabled bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll {
		return errFakeChannel
	}
	f.fans = enabled
	return nil
}

func (f *fakeChannel) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		Name:           "test",
		SerialPort:     "/dev/fake",
		MaxSteps:       100000,
		PollIntervalMS: 2,
	}
}

// newTestDaemon returns a daemon wired to a fake channel.
func newTestDaemon(t *testing.T, cfg *config.Config) (*Daemon, *fakeChannel) {
	t.Helper()
	if cfg == nil {
		cfg = testConfig()
	}
	ch := newFakeChannel()
	d := New(cfg, logging.NewLogger(io.Discard))
	d.dial = func(string) (Channel, error) { return ch, nil }
	t.Cleanup(func() { d.Shutdown() })
	return d, ch
}

// waitFor polls cond until it holds or the deadline passes.
func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}
