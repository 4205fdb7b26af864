package main

type OffsetCmd struct {
	Steps int `arg:"" help:"Signed number of steps relative to the current position"`
}

func (c *OffsetCmd) Run(g *globals) error {
	return runMove(g, c.Steps, true)
}
