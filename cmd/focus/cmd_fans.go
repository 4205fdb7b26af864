package main

import (
	"fmt"

	"github.com/openobs/focusd/internal/ui"
)

type FansCmd struct {
	State string `arg:"" enum:"enable,disable" predictor:"fanstate" help:"Fan state: enable or disable"`
}

func (c *FansCmd) Run(g *globals) error {
	cl, err := newClient(g)
	if err != nil {
		return err
	}
	enabled := c.State == "enable"
	status, _ := cl.EnableFans(enabled)
	if err := result(status); err != nil {
		return err
	}
	ui.PrintSuccess(fmt.Sprintf("Fans %sd", c.State))
	return nil
}
