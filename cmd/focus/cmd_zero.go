package main

import "github.com/openobs/focusd/internal/ui"

type ZeroCmd struct{}

func (c *ZeroCmd) Run(g *globals) error {
	cl, err := newClient(g)
	if err != nil {
		return err
	}
	status, _ := cl.Zero()
	if err := result(status); err != nil {
		return err
	}
	ui.PrintSuccess("Position zeroed")
	return nil
}
