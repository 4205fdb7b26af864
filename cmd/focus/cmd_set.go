package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/openobs/focusd/internal/focuser"
	"github.com/openobs/focusd/internal/ui"
)

type SetCmd struct {
	Position int `arg:"" help:"Absolute target position in encoder steps"`
}

func (c *SetCmd) Run(g *globals) error {
	return runMove(g, c.Position, false)
}

type moveResult struct {
	status focuser.CommandStatus
	err    error
}

// runMove issues the blocking move call. An interrupt while the move is in
// flight triggers exactly one stop request over a fresh connection; the
// move call then returns normally once the hardware has settled.
func runMove(g *globals, steps int, offset bool) error {
	cl, err := newClient(g)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	done := make(chan moveResult, 1)
	go func() {
		status, err := cl.SetFocus(steps, offset)
		done <- moveResult{status: status, err: err}
	}()

	select {
	case r := <-done:
		return result(r.status)
	case <-ctx.Done():
		cancel() // restore default signal behavior for a second interrupt
		ui.PrintWarning("Interrupted, stopping focuser...")
		if status, err := cl.Stop(); err != nil {
			return result(status)
		}
		r := <-done
		return result(r.status)
	}
}
