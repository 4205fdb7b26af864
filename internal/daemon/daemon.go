// Package daemon implements the focusd daemon: the motion state machine
// that owns the single focuser channel, and the socket server that exposes
// it to clients.
package daemon

import (
	"log/slog"
	"sync"
	"time"

	"github.com/openobs/focusd/internal/config"
	"github.com/openobs/focusd/internal/efa"
	"github.com/openobs/focusd/internal/focuser"
	"github.com/openobs/focusd/internal/protocol"
)

// Channel is the hardware collaborator the daemon drives. internal/efa
// provides the real implementation; tests substitute a fake.
type Channel interface {
	Version() (string, error)
	Position() (int, error)
	StartGoto(target int) error
	GotoState() (efa.GotoState, error)
	Halt() error
	SetEncoder(steps int) error
	Temperature(sensor byte) (*float64, error)
	Fans() (bool, error)
	SetFans(enabled bool) error
	Close() error
}

// maxPollErrors is how many consecutive failed polls a move tolerates.
// Near the end of a goto the EFA can stop answering for ~100ms, so a
// single miss is normal.
const maxPollErrors = 3

// stopWait bounds how long Stop waits for the move loop to settle.
const stopWait = 10 * time.Second

// Daemon owns the focuser channel state. All mutating operations are
// serialized by mu; status queries copy a consistent snapshot under the
// same lock. Short command exchanges (start goto, set encoder) run under
// mu so the state transition and the write stay atomic; the long-running
// move loop holds mu only for field updates, never across hardware I/O
// or sleeps.
type Daemon struct {
	cfg    *config.Config
	logger *slog.Logger

	// dial opens the hardware channel. Test hook; defaults to efa.Open.
	dial func(port string) (Channel, error)

	mu      sync.Mutex
	status  focuser.Status
	channel Channel
	current int
	target  int
	primary *float64
	ambient *float64
	fans    bool

	// stopc is closed to cancel the active move; donec is closed by the
	// move loop once the motor has settled. Both are nil when idle.
	stopc         chan struct{}
	donec         chan struct{}
	stopRequested bool

	// pollQuit terminates the background poll loop for the open channel.
	pollQuit chan struct{}
}

// New creates a daemon for one focuser channel.
func New(cfg *config.Config, logger *slog.Logger) *Daemon {
	if logger == nil {
		panic("logger must not be nil")
	}

	status := focuser.Disconnected
	if cfg.Disabled {
		status = focuser.Disabled
	}

	return &Daemon{
		cfg:    cfg,
		logger: logger,
		status: status,
		dial: func(port string) (Channel, error) {
			return efa.Open(port)
		},
	}
}

// Status returns the current channel status.
func (d *Daemon) Status() focuser.Status {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.status
}

// Report produces a fresh snapshot of the channel. Valid in every state;
// below Idle the report carries the status alone.
func (d *Daemon) Report() *protocol.Report {
	d.mu.Lock()
	defer d.mu.Unlock()

	report := &protocol.Report{
		Date:   time.Now().UTC(),
		Status: d.status,
		Label:  d.status.Label(),
	}
	if d.status.Ready() {
		report.CurrentSteps = d.current
		report.TargetSteps = d.target
		report.PrimaryTemperature = d.primary
		report.AmbientTemperature = d.ambient
		report.FansEnabled = d.fans
	}
	return report
}

// Initialize opens the hardware channel. Only valid from Disconnected; on
// hardware failure the daemon stays Disconnected. There is no automatic
// retry: operators re-run init after fixing the fault.
func (d *Daemon) Initialize() focuser.CommandStatus {
	d.mu.Lock()
	if d.status != focuser.Disconnected {
		d.mu.Unlock()
		return focuser.InvalidState
	}
	d.status = focuser.Initializing
	d.mu.Unlock()

	ch, err := d.dial(d.cfg.SerialPort)
	if err != nil {
		d.logger.Error("open channel failed", "port", d.cfg.SerialPort, "error", err)
		d.setStatus(focuser.Disconnected)
		return focuser.HardwareError
	}

	version, err := ch.Version()
	if err == nil {
		var pos int
		pos, err = ch.Position()
		if err == nil {
			d.mu.Lock()
			d.current = pos
			d.target = pos
			d.mu.Unlock()
		}
	}
	if err != nil {
		d.logger.Error("probe channel failed", "error", err)
		ch.Close()
		d.setStatus(focuser.Disconnected)
		return focuser.HardwareError
	}

	d.mu.Lock()
	d.channel = ch
	d.status = focuser.Idle
	d.pollQuit = make(chan struct{})
	quit := d.pollQuit
	d.mu.Unlock()

	d.logger.Info("channel initialized", "port", d.cfg.SerialPort, "version", version)

	// First sensor sweep, then the background loop keeps the snapshot
	// within one poll interval of the hardware.
	if err := d.pollOnce(ch); err != nil {
		d.logger.Warn("initial sensor sweep failed", "error", err)
	}
	go d.pollLoop(ch, quit)

	return focuser.Succeeded
}

// Shutdown closes the hardware channel. No-op success when the channel is
// already closed or disabled; any active motion is stopped first.
func (d *Daemon) Shutdown() focuser.CommandStatus {
	d.mu.Lock()
	switch d.status {
	case focuser.Disabled, focuser.Disconnected:
		d.mu.Unlock()
		return focuser.Succeeded
	case focuser.Initializing:
		d.mu.Unlock()
		return focuser.InvalidState
	}

	if d.status.InMotion() {
		donec := d.requestStopLocked()
		d.mu.Unlock()
		select {
		case <-donec:
		case <-time.After(stopWait):
			d.logger.Error("move did not settle before shutdown")
		}
		d.mu.Lock()
	}

	d.disconnectLocked()
	d.mu.Unlock()

	d.logger.Info("channel shut down")
	return focuser.Succeeded
}

// SetFocus moves the focuser to position, or by position relative to the
// current location when offset is set. Blocks until the motion completes,
// is stopped, or fails. At most one motion may be active per channel.
func (d *Daemon) SetFocus(position int, offset bool) focuser.CommandStatus {
	d.mu.Lock()
	if d.status.InMotion() {
		d.mu.Unlock()
		return focuser.Busy
	}
	if d.status != focuser.Idle {
		d.mu.Unlock()
		return focuser.InvalidState
	}

	target := position
	if offset {
		target = d.current + position
	}
	if target < d.cfg.MinSteps || target > d.cfg.GetMaxSteps() {
		d.mu.Unlock()
		d.logger.Warn("target outside slew limits", "target", target,
			"min", d.cfg.MinSteps, "max", d.cfg.GetMaxSteps())
		return focuser.PositionOutOfRange
	}

	ch := d.channel
	if err := ch.StartGoto(target); err != nil {
		d.logger.Error("start goto failed", "target", target, "error", err)
		d.disconnectLocked()
		d.mu.Unlock()
		return focuser.HardwareError
	}

	d.target = target
	d.status = focuser.Moving
	d.stopc = make(chan struct{})
	d.donec = make(chan struct{})
	d.stopRequested = false
	stopc, donec := d.stopc, d.donec
	d.mu.Unlock()

	d.logger.Info("move started", "target", target, "offset", offset)
	return d.monitorMove(ch, stopc, donec)
}

// monitorMove polls the controller until the goto finishes, is stopped, or
// times out. It owns the transition back to Idle (or Disconnected after a
// confirmed fault) and always closes donec on the way out.
func (d *Daemon) monitorMove(ch Channel, stopc, donec chan struct{}) focuser.CommandStatus {
	defer close(donec)

	ticker := time.NewTicker(d.cfg.PollInterval())
	defer ticker.Stop()
	deadline := time.Now().Add(d.cfg.MoveTimeout())

	pollErrors := 0
	for {
		select {
		case <-stopc:
			if err := ch.Halt(); err != nil {
				d.logger.Error("halt failed", "error", err)
				d.failMove()
				return focuser.HardwareError
			}
			d.refreshPosition(ch)
			d.settleMove()
			d.logger.Info("move stopped", "steps", d.position())
			return focuser.Succeeded

		case <-ticker.C:
			pos, err := ch.Position()
			var state efa.GotoState
			if err == nil {
				state, err = ch.GotoState()
			}
			if err != nil {
				pollErrors++
				d.logger.Warn("no response during goto", "attempt", pollErrors, "error", err)
				if pollErrors > maxPollErrors {
					d.failMove()
					return focuser.HardwareError
				}
				continue
			}
			pollErrors = 0

			d.mu.Lock()
			d.current = pos
			d.mu.Unlock()

			switch state {
			case efa.GotoDone:
				d.settleMove()
				d.logger.Info("move finished", "steps", pos)
				return focuser.Succeeded
			case efa.GotoAborted:
				d.settleMove()
				d.logger.Error("move aborted by controller", "steps", pos)
				return focuser.HardwareError
			}

			if time.Now().After(deadline) {
				d.logger.Error("move timed out", "steps", pos)
				if err := ch.Halt(); err != nil {
					d.logger.Error("halt failed", "error", err)
					d.failMove()
					return focuser.HardwareError
				}
				d.settleMove()
				return focuser.HardwareError
			}
		}
	}
}

// Stop halts any in-progress motion and returns once the motor has
// settled. No-op success when already idle.
func (d *Daemon) Stop() focuser.CommandStatus {
	d.mu.Lock()
	if d.status == focuser.Idle {
		d.mu.Unlock()
		return focuser.Succeeded
	}
	if !d.status.InMotion() {
		d.mu.Unlock()
		return focuser.InvalidState
	}
	donec := d.requestStopLocked()
	d.mu.Unlock()

	select {
	case <-donec:
		return focuser.Succeeded
	case <-time.After(stopWait):
		d.logger.Error("stop timed out waiting for move to settle")
		return focuser.HardwareError
	}
}

// Zero redefines the current position as zero without moving the motor.
func (d *Daemon) Zero() focuser.CommandStatus {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.status != focuser.Idle {
		return focuser.InvalidState
	}

	if err := d.channel.SetEncoder(0); err != nil {
		d.logger.Error("set encoder failed", "error", err)
		d.disconnectLocked()
		return focuser.HardwareError
	}

	d.current = 0
	d.target = 0
	d.logger.Info("home position reset")
	return focuser.Succeeded
}

// EnableFans switches the OTA fans. Valid whenever the channel is open,
// including during a move; does not change the focuser status.
func (d *Daemon) EnableFans(enabled bool) focuser.CommandStatus {
	d.mu.Lock()
	if !d.status.Ready() {
		d.mu.Unlock()
		return focuser.InvalidState
	}
	ch := d.channel
	d.mu.Unlock()

	if err := ch.SetFans(enabled); err != nil {
		d.logger.Error("set fans failed", "enabled", enabled, "error", err)
		d.mu.Lock()
		d.disconnectLocked()
		d.mu.Unlock()
		return focuser.HardwareError
	}

	d.mu.Lock()
	if d.status.Ready() {
		d.fans = enabled
	}
	d.mu.Unlock()

	d.logger.Info("fans switched", "enabled", enabled)
	return focuser.Succeeded
}

// requestStopLocked signals the move loop once and returns its done
// channel. Callers must hold mu.
func (d *Daemon) requestStopLocked() chan struct{} {
	if !d.stopRequested {
		d.stopRequested = true
		close(d.stopc)
	}
	return d.donec
}

// settleMove returns the state machine to Idle after a motion ended with
// the channel still healthy.
func (d *Daemon) settleMove() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.status.InMotion() {
		d.status = focuser.Idle
	}
	d.stopc = nil
	d.donec = nil
}

// failMove handles a confirmed hardware fault during motion: the state
// machine must never keep claiming Moving after the channel is gone.
func (d *Daemon) failMove() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.disconnectLocked()
	d.stopc = nil
	d.donec = nil
}

// disconnectLocked closes the channel and returns to Disconnected.
// Callers must hold mu.
func (d *Daemon) disconnectLocked() {
	if d.pollQuit != nil {
		close(d.pollQuit)
		d.pollQuit = nil
	}
	if d.channel != nil {
		if err := d.channel.Close(); err != nil {
			d.logger.Warn("close channel failed", "error", err)
		}
		d.channel = nil
	}
	d.status = focuser.Disconnected
	d.primary = nil
	d.ambient = nil
	d.fans = false
}

func (d *Daemon) setStatus(status focuser.Status) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.status = status
}

func (d *Daemon) position() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.current
}

func (d *Daemon) refreshPosition(ch Channel) {
	if pos, err := ch.Position(); err == nil {
		d.mu.Lock()
		d.current = pos
		d.mu.Unlock()
	}
}
