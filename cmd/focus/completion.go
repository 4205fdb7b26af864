package main

import (
	"github.com/posener/complete"
	"github.com/willabides/kongplete"
)

// predictors wires shell completion for flag and argument values.
func predictors() []kongplete.Option {
	return []kongplete.Option{
		kongplete.WithPredictor("yaml", complete.PredictFiles("*.yaml")),
		kongplete.WithPredictor("fanstate", complete.PredictSet("enable", "disable")),
	}
}
