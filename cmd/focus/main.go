package main

import (
	"errors"
	"os"

	"github.com/alecthomas/kong"
	"github.com/willabides/kongplete"

	"github.com/openobs/focusd/internal/focuser"
	"github.com/openobs/focusd/internal/ui"
)

var (
	version = "dev"
	commit  = "none"
)

// globals holds flags shared by every command.
type globals struct {
	Config string `help:"Path to the instance config file" type:"path" predictor:"yaml"`
}

type CLI struct {
	globals

	Set    SetCmd    `cmd:"" help:"Move the focuser to an absolute position"`
	Offset OffsetCmd `cmd:"" help:"Move the focuser by a relative number of steps"`
	Stop   StopCmd   `cmd:"" help:"Stop any in-progress movement"`
	Status StatusCmd `cmd:"" help:"Show the current focuser status"`
	JSON   JSONCmd   `cmd:"" name:"json" help:"Print the latest status report as JSON"`
	Zero   ZeroCmd   `cmd:"" help:"Reset the encoder so the current position reads zero"`
	Fans   FansCmd   `cmd:"" help:"Switch the telescope tube fans on or off"`
	Init   InitCmd   `cmd:"" help:"Connect to and initialize the focuser hardware"`
	Kill   KillCmd   `cmd:"" help:"Disconnect from the focuser hardware"`

	Start StartCmd `cmd:"" help:"Start the daemon"`
	Quit  QuitCmd  `cmd:"" help:"Terminate the daemon process"`
	Logs  LogsCmd  `cmd:"" help:"Show daemon logs"`

	Version            VersionCmd                   `cmd:"" help:"Show version"`
	InstallCompletions kongplete.InstallCompletions `cmd:"" help:"Install shell completions"`
}

func main() {
	cli := CLI{}
	parser := kong.Must(&cli,
		kong.Name("focus"),
		kong.Description("Remote control client for the observatory focuser daemon"),
		kong.UsageOnError(),
		kong.Exit(exit),
	)

	kongplete.Complete(parser, predictors()...)

	ctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)

	run(ctx, &cli.globals)
}

func run(ctx *kong.Context, g *globals) {
	err := ctx.Run(g)
	if err == nil {
		return
	}

	var se *statusError
	if errors.As(err, &se) {
		if !se.status.Silent() {
			ui.PrintError(se.status.Message())
		}
		os.Exit(exitCode(se.status))
	}

	ui.PrintError(err.Error())
	os.Exit(exitCode(focuser.Failed))
}

// exit maps kong's own exits (usage errors, help) onto the same exit
// convention the remote statuses use.
func exit(code int) {
	if code != 0 {
		code = exitCode(focuser.Failed)
	}
	os.Exit(code)
}
