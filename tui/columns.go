package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/user/caption-studio-cli/pkg/geometry"
	"github.com/user/caption-studio-cli/pkg/timeutil"
	"github.com/user/caption-studio-cli/tui/components"
	"github.com/user/caption-studio-cli/tui/layout"
	"github.com/user/caption-studio-cli/tui/styles"
)

// renderSessionColumn renders the left column: session info, the selected
// clip's detail box, and the mode indicator.
func (m *Model) renderSessionColumn(width, height int) string {
	label := lipgloss.NewStyle().Foreground(styles.Lavender)
	value := lipgloss.NewStyle().Foreground(styles.LightLavender)

	snap := m.sched.Snapshot()

	mediaPath := "(no session)"
	if m.session != nil {
		mediaPath = m.session.MediaPath
	}
	visible := geometry.VisibleDuration(m.viewport.Zoom)

	sessionLines := []string{
		" " + label.Render("Media  ") + value.Render(truncatePath(mediaPath, width-12)),
		" " + label.Render("Length ") + value.Render(timeutil.FormatTime(m.tl.TotalDuration())),
		" " + label.Render("Clips  ") + value.Render(fmt.Sprintf("%d", m.tl.Len())),
		" " + label.Render("View   ") + value.Render(fmt.Sprintf("%s from %s",
			timeutil.FormatTime(visible),
			timeutil.FormatTime(m.viewport.ScrollSec))),
	}
	sessionBox := components.RenderInfoBox("Session", sessionLines, width)

	var clipLines []string
	if clip, ok := m.selectedClipValue(); ok {
		active := ""
		if clip.ID == snap.ActiveClipID {
			active = lipgloss.NewStyle().Foreground(styles.Cyan).Render(" ● playing")
		}
		clipLines = []string{
			" " + label.Render("Clip   ") + value.Render(fmt.Sprintf("%d of %d", m.selectedClip+1, m.tl.Len())) + active,
			" " + label.Render("Start  ") + value.Render(timeutil.FormatTimecode(clip.StartSec)),
			" " + label.Render("End    ") + value.Render(timeutil.FormatTimecode(clip.EndSec())),
			" " + label.Render("Trim   ") + value.Render(fmt.Sprintf("%s → %s",
				timeutil.FormatTimecode(clip.TrimStartSec),
				timeutil.FormatTimecode(clip.TrimEndSec))),
			" " + label.Render("Source ") + value.Render(truncatePath(clip.MediaSourceID, width-12)),
		}
	} else {
		clipLines = []string{
			" " + label.Render("No clips on the timeline."),
		}
	}
	clipBox := components.RenderInfoBox("Clip", clipLines, width)

	mode := components.ModeIndicator(m.mode.String(), width)

	return layout.Container{Width: width, Height: height}.Render(sessionBox + "\n" + clipBox + "\n" + mode)
}

// renderCaptionColumn renders the middle column: the caption list.
func (m *Model) renderCaptionColumn(width, height int) string {
	// The info box frame eats two lines; the list header one more.
	listHeight := height - 3
	if listHeight < 1 {
		listHeight = 1
	}
	list := components.CaptionList(m.captionList, m.track.Segments(), width-2, listHeight, m.mediaTime())
	return components.RenderInfoBox("Captions", strings.Split(list, "\n"), width)
}

// renderControlsColumn renders the right column: stacked control boxes.
func (m *Model) renderControlsColumn(width, height int) string {
	var boxes []string
	for _, group := range components.GetControlGroups() {
		boxes = append(boxes, components.RenderControlBox(group, width))
	}
	return layout.Container{Width: width, Height: height}.Render(strings.Join(boxes, "\n"))
}

// truncatePath shortens a path from the left so the filename stays visible.
func truncatePath(path string, maxWidth int) string {
	if maxWidth < 4 {
		maxWidth = 4
	}
	if len(path) <= maxWidth {
		return path
	}
	return "…" + path[len(path)-maxWidth+1:]
}
