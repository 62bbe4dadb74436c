// Package ui holds the terminal styling used by the command output.
package ui

import "os"

// ANSI color and style constants for CLI output
const (
	ColorReset = "\033[0m"
	ColorBold  = "\033[1m"
	ColorDim   = "\033[2m"

	ColorCyan  = "\033[36m"
	ColorGreen = "\033[32m"
	ColorWhite = "\033[97m"
	ColorRed   = "\033[31m"
)

// Plain disables styling of the helpers below. It follows the NO_COLOR convention.
var Plain = os.Getenv("NO_COLOR") != ""

func style(code, s string) string {
	if Plain {
		return s
	}
	return code + s + ColorReset
}

// Success styles a confirmation message
func Success(s string) string { return style(ColorGreen, s) }

// Error styles a failure message
func Error(s string) string { return style(ColorRed, s) }
