// Package components provides reusable TUI components.
package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/user/caption-studio-cli/pkg/timeutil"
	"github.com/user/caption-studio-cli/tui/styles"
)

// TransportState holds the playback snapshot for the transport bar.
type TransportState struct {
	// StateLabel is the playback state shown on the left ("playing-clip" etc).
	StateLabel string
	// Playing indicates the engine is advancing.
	Playing bool
	// TimePos is the current global timeline position in seconds.
	TimePos float64
	// Duration is the total timeline duration in seconds.
	Duration float64
	// StepSize is the current nudge step in seconds.
	StepSize float64
	// Muted indicates the active buffer is muted.
	Muted bool
	// Zoom is the viewport zoom slider position in [0,1].
	Zoom float64
	// PendingSaves is the number of caption edits waiting in the outbox.
	PendingSaves int
	// PendingPlay indicates a play intent was rejected and is waiting on 'r'.
	PendingPlay bool
	// Poster indicates the active buffer is covered until its first frame.
	Poster bool
}

// TransportBar renders the top transport bar: state icon, global position and
// duration on the left; step size, zoom, and pending-save badge on the right.
func TransportBar(state TransportState, width int) string {
	icon := "⏸"
	if state.Playing {
		icon = "▶"
	}
	if state.Poster {
		icon = "⧗"
	}

	left := fmt.Sprintf(" %s %s / %s  [%s]",
		icon,
		timeutil.FormatTimecode(state.TimePos),
		timeutil.FormatTimecode(state.Duration),
		state.StateLabel)

	var badges string
	if state.Muted {
		badges += " 🔇"
	}
	if state.PendingPlay {
		badges += " ⚠ press r to play"
	}
	if state.PendingSaves > 0 {
		badges += fmt.Sprintf(" ✎%d", state.PendingSaves)
	}
	right := fmt.Sprintf("step %s  zoom %.0f%%%s ", formatStepSize(state.StepSize), state.Zoom*100, badges)

	pad := width - lipgloss.Width(left) - lipgloss.Width(right)
	if pad < 0 {
		pad = 0
	}

	bar := lipgloss.NewStyle().
		Background(styles.DarkPurple).
		Foreground(styles.LightLavender).
		Bold(true).
		Width(width)

	content := left
	for i := 0; i < pad; i++ {
		content += " "
	}
	return bar.Render(content + right)
}

// formatStepSize formats the step size for display. Shows a decimal for
// sub-second steps, otherwise a whole number.
func formatStepSize(stepSize float64) string {
	if stepSize < 1 {
		return fmt.Sprintf("%.1fs", stepSize)
	}
	return fmt.Sprintf("%.0fs", stepSize)
}
