package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/user/caption-studio-cli/tui/styles"
)

// HelpOverlay renders the help overlay showing all keybindings, grouped by
// function, centered in the terminal.
func HelpOverlay(width, height int) string {
	groups := []struct {
		title    string
		bindings []struct {
			key  string
			desc string
		}
	}{
		{
			title: "Playback",
			bindings: []struct {
				key  string
				desc string
			}{
				{"Space", "Toggle play/pause"},
				{"h / l", "Nudge backward / forward by step size"},
				{"< / >", "Decrease / increase step size"},
				{"s", "Enter scrub mode (h/l drag, Enter commits, Esc cancels)"},
				{"m", "Toggle mute"},
				{"r", "Retry a blocked play"},
			},
		},
		{
			title: "Timeline",
			bindings: []struct {
				key  string
				desc string
			}{
				{"p / n", "Select previous / next clip"},
				{"[ / ]", "Zoom out / in"},
				{":split", "Split the selected clip at the playhead"},
				{":move", "Move the selected clip (:move 1:30)"},
				{":del", "Delete the selected clip"},
			},
		},
		{
			title: "Captions",
			bindings: []struct {
				key  string
				desc string
			}{
				{"j / k", "Select previous / next caption"},
				{"Enter", "Jump to the selected caption"},
				{"a", "Add a caption at the playhead"},
				{"e", "Edit the selected caption"},
				{"x", "Delete the selected caption"},
				{":gapins", "Insert a gap after the selected caption (:gapins 1.0)"},
				{":gaprem", "Close a gap after the selected caption (:gaprem 1.0)"},
			},
		},
		{
			title: "General",
			bindings: []struct {
				key  string
				desc string
			}{
				{":", "Enter command mode (:goto, :zoom, :save, ...)"},
				{"Esc", "Cancel command or scrub mode"},
				{"?", "Show/hide this help"},
				{"q", "Quit"},
			},
		},
	}

	titleStyle := lipgloss.NewStyle().
		Foreground(styles.Cyan).
		Bold(true).
		Padding(0, 1)
	groupHeaderStyle := lipgloss.NewStyle().
		Foreground(styles.Pink).
		Bold(true).
		MarginTop(1)
	keyStyle := lipgloss.NewStyle().
		Foreground(styles.Lavender).
		Bold(true).
		Width(12)
	descStyle := lipgloss.NewStyle().
		Foreground(styles.LightLavender)

	var lines []string
	lines = append(lines, titleStyle.Render("Keybindings"))
	lines = append(lines, "")
	for _, group := range groups {
		lines = append(lines, groupHeaderStyle.Render(group.title))
		for _, b := range group.bindings {
			lines = append(lines, "  "+keyStyle.Render(b.key)+descStyle.Render(b.desc))
		}
	}
	lines = append(lines, "")
	footerStyle := lipgloss.NewStyle().
		Foreground(styles.Lavender).
		Italic(true)
	lines = append(lines, footerStyle.Render("Press any key to close"))

	content := strings.Join(lines, "\n")

	contentLines := strings.Split(content, "\n")
	contentWidth := 0
	for _, line := range contentLines {
		if w := lipgloss.Width(line); w > contentWidth {
			contentWidth = w
		}
	}

	marginLeft := (width - contentWidth - 4) / 2
	if marginLeft < 0 {
		marginLeft = 0
	}
	marginTop := (height - len(contentLines) - 2) / 2
	if marginTop < 0 {
		marginTop = 0
	}

	panel := lipgloss.NewStyle().
		Background(styles.DarkPurple).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.BrightPurple).
		Padding(1, 2).
		Render(content)

	return lipgloss.NewStyle().
		MarginLeft(marginLeft).
		MarginTop(marginTop).
		Render(panel)
}
