package main

import "github.com/openobs/focusd/internal/ui"

type InitCmd struct{}

func (c *InitCmd) Run(g *globals) error {
	cl, err := newClient(g)
	if err != nil {
		return err
	}
	status, _ := cl.Initialize()
	if err := result(status); err != nil {
		return err
	}
	ui.PrintSuccess("Focuser initialized")
	return nil
}
