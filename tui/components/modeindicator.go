package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/user/caption-studio-cli/tui/styles"
)

// ModeIndicator renders the current input mode in a bordered box.
// mode is one of "NORMAL", "SCRUB", "COMMAND", "EDIT".
func ModeIndicator(mode string, width int) string {
	modeStyle := lipgloss.NewStyle().Foreground(styles.LightLavender).Bold(true)
	if mode == "SCRUB" {
		modeStyle = lipgloss.NewStyle().Foreground(styles.Amber).Bold(true)
	}

	left := " Mode:"
	right := mode + " "

	innerW := width - 2
	pad := innerW - lipgloss.Width(left) - lipgloss.Width(right)
	if pad < 1 {
		pad = 1
	}

	textStyle := lipgloss.NewStyle().Foreground(styles.Lavender)
	line := textStyle.Render(left) + strings.Repeat(" ", pad) + modeStyle.Render(right)
	return RenderInfoBox("Mode", []string{line}, width)
}
