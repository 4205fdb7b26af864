package main

import "github.com/openobs/focusd/internal/ui"

// KillCmd disconnects the daemon from the hardware. The daemon process
// keeps running; use quit to terminate it.
type KillCmd struct{}

func (c *KillCmd) Run(g *globals) error {
	cl, err := newClient(g)
	if err != nil {
		return err
	}
	status, _ := cl.Shutdown()
	if err := result(status); err != nil {
		return err
	}
	ui.PrintSuccess("Focuser disconnected")
	return nil
}
