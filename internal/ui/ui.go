// Package ui provides formatted output utilities for the CLI.
package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	"github.com/openobs/focusd/internal/focuser"
	"github.com/openobs/focusd/internal/protocol"
)

// Color functions for consistent styling.
var (
	Green  = color.New(color.FgGreen).SprintFunc()
	Red    = color.New(color.FgRed).SprintFunc()
	Yellow = color.New(color.FgYellow).SprintFunc()
	Blue   = color.New(color.FgBlue).SprintFunc()
	Dim    = color.New(color.Faint).SprintFunc()
	Bold   = color.New(color.Bold).SprintFunc()
)

// Output is the destination for UI output.
// Defaults to os.Stdout but can be overridden for testing.
var Output io.Writer = os.Stdout

// StatusBadge returns the emphasized label for a focuser status.
func StatusBadge(s focuser.Status) string {
	label := Bold(s.Label())
	switch {
	case s.InMotion():
		return Yellow(label)
	case s == focuser.Idle:
		return Green(label)
	case s == focuser.Disabled:
		return Dim(label)
	}
	return Red(label)
}

// FanBadge renders the OTA fan state.
func FanBadge(enabled bool) string {
	if enabled {
		return Green(Bold("ENABLED"))
	}
	return Red(Bold("DISABLED"))
}

// FormatSteps renders a step position in the fixed seven-digit field the
// observatory displays use.
func FormatSteps(steps int) string {
	return fmt.Sprintf("%07d", steps)
}

// FormatTemperature renders a sensor reading, or N/A when absent.
func FormatTemperature(celsius *float64) string {
	if celsius == nil {
		return Dim("N/A")
	}
	return fmt.Sprintf("%.1f °C", *celsius)
}

// PrintReport prints a status report in the formatted style.
func PrintReport(report *protocol.Report) {
	fmt.Fprintf(Output, "%s %s\n", Bold("Focuser status:"), StatusBadge(report.Status))

	if !report.Status.Ready() {
		return
	}

	fmt.Fprintf(Output, "%s %s steps %s\n",
		Bold("Position:"),
		FormatSteps(report.CurrentSteps),
		Dim(fmt.Sprintf("(target %s)", FormatSteps(report.TargetSteps))))
	fmt.Fprintf(Output, "%s %s\n", Bold("Primary mirror temp:"), FormatTemperature(report.PrimaryTemperature))
	fmt.Fprintf(Output, "%s %s\n", Bold("Ambient temp:"), FormatTemperature(report.AmbientTemperature))
	fmt.Fprintf(Output, "%s %s\n", Bold("OTA fans:"), FanBadge(report.FansEnabled))
}

// PrintSuccess prints a success message with green checkmark.
func PrintSuccess(message string) {
	fmt.Fprintf(Output, "%s %s\n", Green("✓"), message)
}

// PrintError prints an error message with red X.
func PrintError(message string) {
	fmt.Fprintf(Output, "%s %s\n", Red("✗"), message)
}

// PrintWarning prints a warning message with yellow exclamation.
func PrintWarning(message string) {
	fmt.Fprintf(Output, "%s %s\n", Yellow("⚠"), message)
}

// PrintInfo prints an info message with blue dot.
func PrintInfo(message string) {
	fmt.Fprintf(Output, "%s %s\n", Blue("•"), message)
}
