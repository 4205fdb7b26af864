package daemon

import (
	"time"

	"github.com/openobs/focusd/internal/efa"
	"github.com/openobs/focusd/internal/focuser"
)

// pollLoop refreshes the snapshot from the hardware while the channel is
// open and idle. During a move the move loop owns position updates, so the
// poll loop skips those ticks entirely.
func (d *Daemon) pollLoop(ch Channel, quit chan struct{}) {
	ticker := time.NewTicker(d.cfg.PollInterval())
	defer ticker.Stop()

	failures := 0
	for {
		select {
		case <-quit:
			return
		case <-ticker.C:
		}

		d.mu.Lock()
		idle := d.status == focuser.Idle && d.channel == ch
		d.mu.Unlock()
		if !idle {
			continue
		}

		if err := d.pollOnce(ch); err != nil {
			failures++
			d.logger.Warn("poll failed", "attempt", failures, "error", err)
			if failures > maxPollErrors {
				d.logger.Error("channel lost, disconnecting")
				d.mu.Lock()
				if d.channel == ch {
					d.disconnectLocked()
				}
				d.mu.Unlock()
				return
			}
			continue
		}
		failures = 0
	}
}

// pollOnce reads position, temperatures and fan state into the snapshot.
func (d *Daemon) pollOnce(ch Channel) error {
	pos, err := ch.Position()
	if err != nil {
		return err
	}
	primary, err := ch.Temperature(efa.SensorPrimary)
	if err != nil {
		return err
	}
	ambient, err := ch.Temperature(efa.SensorAmbient)
	if err != nil {
		return err
	}
	fans, err := ch.Fans()
	if err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.channel != ch || !d.status.Ready() {
		return nil
	}
	if d.status == focuser.Idle {
		d.current = pos
	}
	d.primary = primary
	d.ambient = ambient
	d.fans = fans
	d.logger.Debug("snapshot refreshed", "steps", pos, "fans", fans)
	return nil
}
