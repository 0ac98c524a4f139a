package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/user/caption-studio-cli/pkg/timeutil"
	"github.com/user/caption-studio-cli/tui/styles"
)

// Control represents a single control with its display info.
type Control struct {
	Name     string
	Shortcut string
}

// ControlGroup represents a group of related controls with sub-group support.
// SubGroups allows the renderer to place horizontal dividers between sub-groups.
type ControlGroup struct {
	Name      string
	SubGroups [][]Control
}

// GetControlGroups returns the control groups for display.
func GetControlGroups() []ControlGroup {
	return []ControlGroup{
		{
			Name: "Playback",
			SubGroups: [][]Control{
				{
					{Name: "Play", Shortcut: "Space"},
					{Name: "Back", Shortcut: "h"},
					{Name: "Fwd", Shortcut: "l"},
					{Name: "Retry", Shortcut: "r"},
				},
				{
					{Name: "Step -", Shortcut: "<"},
					{Name: "Step +", Shortcut: ">"},
					{Name: "Scrub", Shortcut: "s"},
					{Name: "Mute", Shortcut: "m"},
				},
			},
		},
		{
			Name: "Timeline",
			SubGroups: [][]Control{
				{
					{Name: "Clip -", Shortcut: "p"},
					{Name: "Clip +", Shortcut: "n"},
					{Name: "Zoom -", Shortcut: "["},
					{Name: "Zoom +", Shortcut: "]"},
				},
			},
		},
		{
			Name: "Captions",
			SubGroups: [][]Control{
				{
					{Name: "Prev", Shortcut: "j"},
					{Name: "Next", Shortcut: "k"},
					{Name: "Jump", Shortcut: "Enter"},
				},
				{
					{Name: "Add", Shortcut: "a"},
					{Name: "Edit", Shortcut: "e"},
					{Name: "Delete", Shortcut: "x"},
				},
			},
		},
		{
			Name: "Views",
			SubGroups: [][]Control{
				{
					{Name: "Command", Shortcut: ":"},
					{Name: "Help", Shortcut: "?"},
					{Name: "Quit", Shortcut: "q"},
				},
			},
		},
	}
}

// RenderInfoBox renders a generic bordered box with a tab-style header and
// content lines. Content lines are rendered as-is (caller handles styling).
func RenderInfoBox(title string, contentLines []string, width int) string {
	if width < 4 {
		return ""
	}

	innerWidth := width - 2
	if innerWidth < 1 {
		innerWidth = 1
	}

	headerStyle := lipgloss.NewStyle().Foreground(styles.Pink).Bold(true)
	borderStyle := lipgloss.NewStyle().Foreground(styles.Purple)

	// Tab header: ╭─ Title ─────╮
	headerText := headerStyle.Render(" " + title + " ")
	fillWidth := innerWidth - 1 - lipgloss.Width(headerText)
	if fillWidth < 0 {
		fillWidth = 0
	}
	topLine := borderStyle.Render("╭─") + headerText + borderStyle.Render(strings.Repeat("─", fillWidth)+"╮")

	var lines []string
	lines = append(lines, topLine)
	for _, line := range contentLines {
		pad := innerWidth - lipgloss.Width(line)
		if pad < 0 {
			pad = 0
		}
		lines = append(lines, borderStyle.Render("│")+line+strings.Repeat(" ", pad)+borderStyle.Render("│"))
	}
	lines = append(lines, borderStyle.Render("╰"+strings.Repeat("─", innerWidth)+"╯"))

	return strings.Join(lines, "\n")
}

// RenderControlBox renders a control group inside a bordered box with a tab
// header and horizontal dividers between sub-groups.
func RenderControlBox(group ControlGroup, width int) string {
	if width < 6 {
		return ""
	}

	borderStyle := lipgloss.NewStyle().Foreground(styles.Purple)
	headerStyle := lipgloss.NewStyle().Foreground(styles.Pink).Bold(true)
	nameStyle := lipgloss.NewStyle().Foreground(styles.LightLavender)
	shortcutStyle := lipgloss.NewStyle().Foreground(styles.Cyan).Bold(true)

	innerW := width - 2

	// Tab header lines:
	//  ┌──────────┐
	// ┌┤ Playback ├┐
	// │└──────────┘└───┐
	tabLabel := " " + group.Name + " "
	tabInnerW := lipgloss.Width(tabLabel)
	line1 := " " + borderStyle.Render("┌"+strings.Repeat("─", tabInnerW)+"┐")
	line2 := borderStyle.Render("┌┤") + headerStyle.Render(tabLabel) + borderStyle.Render("├┐")
	remainW := innerW - tabInnerW - 3
	if remainW < 0 {
		remainW = 0
	}
	line3 := borderStyle.Render("│└" + strings.Repeat("─", tabInnerW) + "┘└" + strings.Repeat("─", remainW) + "┐")

	lines := []string{line1, line2, line3}

	maxNameW := 0
	for _, sg := range group.SubGroups {
		for _, c := range sg {
			if len(c.Name) > maxNameW {
				maxNameW = len(c.Name)
			}
		}
	}

	for si, subGroup := range group.SubGroups {
		for _, c := range subGroup {
			namePart := nameStyle.Render(fmt.Sprintf("%-*s", maxNameW, c.Name))
			shortcutPart := shortcutStyle.Render("[ " + c.Shortcut + " ]")
			content := namePart + "  " + shortcutPart

			padRight := innerW - 2 - lipgloss.Width(content)
			if padRight < 0 {
				padRight = 0
			}
			row := borderStyle.Render("│") + " " + content + strings.Repeat(" ", padRight) + " " + borderStyle.Render("│")
			if lipgloss.Width(row) > width {
				row = ansi.Truncate(row, width, "")
			}
			lines = append(lines, row)
		}
		if si < len(group.SubGroups)-1 {
			lines = append(lines, borderStyle.Render("├"+strings.Repeat("─", innerW)+"┤"))
		}
	}

	lines = append(lines, borderStyle.Render("└"+strings.Repeat("─", innerW)+"┘"))
	return strings.Join(lines, "\n")
}

// RenderCompactTransport renders a minimal transport card for terminals too
// narrow for the full layout.
func RenderCompactTransport(state TransportState, termWidth int) string {
	textStyle := lipgloss.NewStyle().Foreground(styles.LightLavender)
	warningStyle := lipgloss.NewStyle().Foreground(styles.Lavender).Italic(true)

	playState := "⏸ Paused"
	if state.Playing {
		playState = "▶ Playing"
	}
	statusLine := textStyle.Render(fmt.Sprintf(" %s  step %s", playState, formatStepSize(state.StepSize)))
	timeLine := textStyle.Render(fmt.Sprintf(" %s / %s",
		timeutil.FormatTimecode(state.TimePos),
		timeutil.FormatTimecode(state.Duration)))

	cardWidth := lipgloss.Width(timeLine) + 4
	if w := lipgloss.Width(statusLine) + 4; w > cardWidth {
		cardWidth = w
	}
	if cardWidth > termWidth {
		cardWidth = termWidth
	}

	card := RenderInfoBox("Playback", []string{statusLine, timeLine}, cardWidth)

	// Center horizontally
	pad := (termWidth - cardWidth) / 2
	if pad > 0 {
		padStr := strings.Repeat(" ", pad)
		var centered []string
		for _, l := range strings.Split(card, "\n") {
			centered = append(centered, padStr+l)
		}
		card = strings.Join(centered, "\n")
	}

	warning := warningStyle.Render("Compact mode - resize for the full editor")
	warnPad := (termWidth - lipgloss.Width(warning)) / 2
	if warnPad < 0 {
		warnPad = 0
	}
	return card + "\n" + strings.Repeat(" ", warnPad) + warning
}
