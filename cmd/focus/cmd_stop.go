package main

type StopCmd struct{}

func (c *StopCmd) Run(g *globals) error {
	cl, err := newClient(g)
	if err != nil {
		return err
	}
	status, _ := cl.Stop()
	return result(status)
}
