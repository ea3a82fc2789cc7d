package ui

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/term"
	"github.com/mattn/go-isatty"

	"github.com/iiroan/prism/internal/theme"
)

const fallbackWidth = 80

func StartScreen(title string, subtitle string) {
	ClearScreen()
	fmt.Println(Align(Header(title)))
	if subtitle != "" {
		fmt.Println(Align(Tagline.Render(subtitle)))
	}
	if !CurrentPreferences.Dense {
		fmt.Println()
	}
}

func ClearScreen() {
	if !IsInteractiveTerminal() {
		return
	}
	fmt.Print("\033[2J\033[H")
}

func IsInteractiveTerminal() bool {
	if os.Getenv("CI") != "" || os.Getenv("GITHUB_ACTIONS") != "" {
		return false
	}
	if os.Getenv("TERM") == "" {
		return false
	}
	return isatty.IsTerminal(os.Stdout.Fd())
}

// TerminalWidth returns the width of stdout, or 80 when it is not a terminal.
func TerminalWidth() int {
	if !isatty.IsTerminal(os.Stdout.Fd()) {
		return fallbackWidth
	}
	width, _, err := term.GetSize(os.Stdout.Fd())
	if err != nil || width <= 0 {
		return fallbackWidth
	}
	return width
}

// Align places a block at the start edge of the current document direction.
func Align(block string) string {
	return AlignWidth(block, TerminalWidth())
}

// AlignWidth is Align for an explicit width.
func AlignWidth(block string, width int) string {
	if DefaultDocument.Dir() != theme.RTL {
		return block
	}
	return lipgloss.PlaceHorizontal(width, lipgloss.Right, block)
}

// Frame renders a full-screen TUI layout.
func Frame(title string, subtitle string, body string, footer string) string {
	width := TerminalWidth()
	parts := make([]string, 0, 5)
	parts = append(parts, AlignWidth(Header(title), width))
	if subtitle != "" {
		parts = append(parts, AlignWidth(Tagline.Render(subtitle), width))
	}
	if !CurrentPreferences.Dense {
		parts = append(parts, "")
	}
	parts = append(parts, body)
	if footer != "" {
		parts = append(parts, AlignWidth(footer, width))
	}

	position := lipgloss.Left
	if DefaultDocument.Dir() == theme.RTL {
		position = lipgloss.Right
	}
	return lipgloss.JoinVertical(position, parts...)
}
