package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/user/caption-studio-cli/caption"
	"github.com/user/caption-studio-cli/pkg/timeutil"
	"github.com/user/caption-studio-cli/tui/styles"
)

// CaptionListState holds selection and scroll state for the caption list.
// The segments themselves live in the caption track; the list is rendered
// from a fresh snapshot every frame.
type CaptionListState struct {
	// SelectedIndex is the currently selected segment index
	SelectedIndex int
	// ScrollOffset is the scroll position
	ScrollOffset int
}

// MoveUp moves the selection up in the list.
func (s *CaptionListState) MoveUp() {
	if s.SelectedIndex > 0 {
		s.SelectedIndex--
	}
}

// MoveDown moves the selection down in the list.
func (s *CaptionListState) MoveDown(count int) {
	if s.SelectedIndex < count-1 {
		s.SelectedIndex++
	}
}

// Clamp keeps the selection inside the segment count after deletions.
func (s *CaptionListState) Clamp(count int) {
	if s.SelectedIndex >= count {
		s.SelectedIndex = count - 1
	}
	if s.SelectedIndex < 0 {
		s.SelectedIndex = 0
	}
}

// CaptionList renders the caption segments as a table. The row whose timing
// range covers mediaTimePos is tinted so the active caption is visible while
// playing.
func CaptionList(state CaptionListState, segs []caption.Segment, width, height int, mediaTimePos float64) string {
	var lines []string

	headerStyle := lipgloss.NewStyle().
		Foreground(styles.Lavender).
		Bold(true).
		Underline(true)

	// Column widths (#: 4, Start: 10, End: 10, Text: rest)
	numWidth := 4
	timeWidth := 10
	textWidth := width - numWidth - timeWidth*2 - 6
	if textWidth < 10 {
		textWidth = 10
	}

	header := fmt.Sprintf(" %-*s %-*s %-*s %-*s",
		numWidth, "#",
		timeWidth, "Start",
		timeWidth, "End",
		textWidth, "Text")
	lines = append(lines, headerStyle.Render(header))

	rows := height - 1
	if rows < 1 {
		rows = 1
	}

	if len(segs) == 0 {
		emptyStyle := lipgloss.NewStyle().
			Foreground(styles.Purple).
			Italic(true)
		lines = append(lines, emptyStyle.Render(" No captions yet. Press 'a' to add one at the playhead."))
		for i := 1; i < rows; i++ {
			lines = append(lines, "")
		}
		return strings.Join(lines, "\n")
	}

	state.Clamp(len(segs))

	// Keep the selected row visible within the window.
	if state.SelectedIndex < state.ScrollOffset {
		state.ScrollOffset = state.SelectedIndex
	} else if state.SelectedIndex >= state.ScrollOffset+rows {
		state.ScrollOffset = state.SelectedIndex - rows + 1
	}
	maxOffset := len(segs) - rows
	if maxOffset < 0 {
		maxOffset = 0
	}
	if state.ScrollOffset > maxOffset {
		state.ScrollOffset = maxOffset
	}
	if state.ScrollOffset < 0 {
		state.ScrollOffset = 0
	}

	for row := 0; row < rows; row++ {
		i := state.ScrollOffset + row
		if i >= len(segs) {
			lines = append(lines, "")
			continue
		}
		seg := segs[i]
		active := mediaTimePos >= seg.Start && mediaTimePos < seg.End
		lines = append(lines, renderCaptionListRow(seg, i, i == state.SelectedIndex, active, numWidth, timeWidth, textWidth, width))
	}

	return strings.Join(lines, "\n")
}

// renderCaptionListRow renders a single caption table row.
func renderCaptionListRow(seg caption.Segment, index int, selected, active bool, numWidth, timeWidth, textWidth, fullWidth int) string {
	text := seg.Text
	if len(text) > textWidth {
		text = text[:textWidth-3] + "..."
	}

	content := fmt.Sprintf(" %-*d %-*s %-*s %-*s",
		numWidth, index+1,
		timeWidth, timeutil.FormatTimecode(seg.Start),
		timeWidth, timeutil.FormatTimecode(seg.End),
		textWidth, text)

	var lineStyle lipgloss.Style
	switch {
	case selected:
		lineStyle = lipgloss.NewStyle().
			Background(styles.BrightPurple).
			Foreground(styles.LightLavender).
			Bold(true).
			Width(fullWidth)
	case active:
		lineStyle = lipgloss.NewStyle().
			Foreground(styles.Cyan).
			Width(fullWidth)
	default:
		lineStyle = lipgloss.NewStyle().
			Foreground(styles.LightLavender).
			Width(fullWidth)
	}

	return lineStyle.Render(content)
}
