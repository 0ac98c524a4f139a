package layout

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/user/caption-studio-cli/tui/styles"
)

// Responsive layout constants.
const (
	MinTerminalWidth  = 80 // minimum terminal width for the multi-column layout
	Col3HideThreshold = 96 // below this width, hide the controls column entirely
	Col3MinWidth      = 22 // minimum width for the controls column before hiding
)

// ComputeColumnWidths calculates responsive column widths based on terminal width.
// Returns individual column widths and whether the controls column should be shown.
// At >=120 width the caption list gets the extra space; at medium widths the
// controls column shrinks to its minimum; below the threshold it is hidden.
func ComputeColumnWidths(termWidth int) (col1, col2, col3 int, showCol3 bool) {
	showCol3 = termWidth >= Col3HideThreshold

	if showCol3 {
		// Three columns joined by 2 border characters
		usable := termWidth - 2

		if termWidth >= 120 {
			col1 = usable / 4
			col3 = usable / 4
			col2 = usable - col1 - col3
		} else {
			col3 = Col3MinWidth
			col1 = (usable - col3) * 2 / 5
			col2 = usable - col1 - col3
		}
	} else {
		// Two columns joined by 1 border character
		usable := termWidth - 1
		col1 = usable * 2 / 5
		col2 = usable - col1
		col3 = 0
	}

	return
}

// JoinColumns joins pre-rendered column strings side by side with border
// separators. Each column is normalized to the given height and padded to
// its width.
func JoinColumns(columns []string, widths []int, height int) string {
	borderStr := lipgloss.NewStyle().
		Foreground(styles.Purple).
		Render("│")

	colLines := make([][]string, len(columns))
	for i, col := range columns {
		colLines[i] = NormalizeLines(strings.Split(col, "\n"), height)
	}

	var rows []string
	for row := 0; row < height; row++ {
		var parts []string
		for i, lines := range colLines {
			parts = append(parts, PadToWidth(lines[row], widths[i]))
		}
		rows = append(rows, strings.Join(parts, borderStr))
	}

	return strings.Join(rows, "\n")
}
