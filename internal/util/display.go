package util

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
)

// Terminal control sequences
const (
	ColorReset  = "\033[0m"
	ColorBold   = "\033[1m"
	ColorDim    = "\033[2m"
	ColorRed    = "\033[31m"
	ColorGray   = "\033[90m"
	ColorOrange = "\033[38;5;208m"

	ClearScreen    = "\033[2J"   // Clear entire screen
	MoveCursorHome = "\033[H"    // Move cursor to home position
	HideCursor     = "\033[?25l" // Hide cursor
	ShowCursor     = "\033[?25h" // Show cursor

	EnterAltScreen = "\033[?1049h" // Switch to alternate screen buffer
	ExitAltScreen  = "\033[?1049l" // Restore primary screen buffer
)

// Color256 returns the escape sequence selecting a 256-color foreground
func Color256(n int) string {
	return fmt.Sprintf("\033[38;5;%dm", n)
}

// GetDisplayWidth calculates the display width of a string, accounting for
// wide runes
func GetDisplayWidth(text string) int {
	return runewidth.StringWidth(text)
}

// PadString pads text with spaces on the right up to the given display width
func PadString(text string, width int) string {
	current := runewidth.StringWidth(text)
	if current >= width {
		return text
	}
	return text + strings.Repeat(" ", width-current)
}

// TruncateString shortens text to fit the given display width
func TruncateString(text string, width int) string {
	return runewidth.Truncate(text, width, "…")
}
