package main

import (
	"encoding/json"
	"fmt"

	"github.com/openobs/focusd/internal/focuser"
)

type JSONCmd struct{}

func (c *JSONCmd) Run(g *globals) error {
	cl, err := newClient(g)
	if err != nil {
		return err
	}

	report, err := cl.Report()
	if err != nil || report == nil {
		// Machine consumers still get valid JSON on stdout.
		fmt.Println("null")
		return result(focuser.CommunicationError)
	}

	data, err := json.Marshal(report)
	if err != nil {
		return result(focuser.InternalError)
	}
	fmt.Println(string(data))
	return nil
}
