package util

import (
	"os"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/term"
)

// Terminal control sequences
const (
	ClearScreen         = "\033[2J"
	ClearLineFromCursor = "\033[0K"
	ClearToEnd          = "\033[0J"
	MoveCursorHome      = "\033[H"
	HideCursor          = "\033[?25l"
	ShowCursor          = "\033[?25h"
	EnterAltScreen      = "\033[?1049h"
	ExitAltScreen       = "\033[?1049l"
)

// GetDisplayWidth calculates the actual display width of a string, accounting for wide runes
func GetDisplayWidth(text string) int {
	return runewidth.StringWidth(text)
}

// TruncateWidth cuts text to width display columns, appending tail when it was cut.
func TruncateWidth(text string, width int, tail string) string {
	return runewidth.Truncate(text, width, tail)
}

// PadRight pads text with spaces up to width display columns.
func PadRight(text string, width int) string {
	return runewidth.FillRight(text, width)
}

// PadLeft right-aligns text within width display columns.
func PadLeft(text string, width int) string {
	return runewidth.FillLeft(text, width)
}

// IsTerminal reports whether stdout is attached to a terminal.
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// TerminalWidth returns the stdout terminal width, or fallback when it cannot be determined.
func TerminalWidth(fallback int) int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return fallback
	}
	return width
}

// CreateProgressBar draws a bar of the given inner width for a 0-100 percentage.
func CreateProgressBar(percentage float64, width int) string {
	if width < 1 {
		width = 1
	}
	if percentage < 0 {
		percentage = 0
	}
	if percentage > 100 {
		percentage = 100
	}
	filled := int((percentage / 100) * float64(width))
	return "[" + strings.Repeat("█", filled) + strings.Repeat("░", width-filled) + "]"
}
