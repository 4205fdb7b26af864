package main

import (
	"github.com/openobs/focusd/internal/focuser"
	"github.com/openobs/focusd/internal/ui"
)

type StatusCmd struct{}

func (c *StatusCmd) Run(g *globals) error {
	cl, err := newClient(g)
	if err != nil {
		return err
	}

	report, err := cl.Report()
	if err != nil {
		return result(focuser.CommunicationError)
	}
	if report == nil {
		return result(focuser.InternalError)
	}

	ui.PrintReport(report)
	return nil
}
