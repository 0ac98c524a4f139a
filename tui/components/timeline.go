package components

import (
	"math"

	"github.com/charmbracelet/lipgloss"
	"github.com/user/caption-studio-cli/caption"
	"github.com/user/caption-studio-cli/pkg/geometry"
	"github.com/user/caption-studio-cli/pkg/timeutil"
	"github.com/user/caption-studio-cli/timeline"
	"github.com/user/caption-studio-cli/tui/styles"
)

// TimelineView renders the zoomable timeline lane in a bordered box:
// a ruler row with tick labels, a clip/gap lane, and a caption/playhead row.
// One terminal cell corresponds to one viewport pixel, so all time/pixel
// mapping goes through the geometry viewport.
func TimelineView(v geometry.Viewport, ranges []timeline.Range, segs []caption.Segment, playheadSec, totalSec float64, activeClipID string, width int) string {
	if width < 20 {
		return ""
	}

	// Inner bar width: box borders plus one space margin each side
	barWidth := width - 4
	if barWidth < 10 {
		barWidth = 10
	}
	v.WidthPx = float64(barWidth)

	ruler := renderRuler(v, totalSec, barWidth)
	lane := renderClipLane(v, ranges, activeClipID, totalSec, barWidth)
	markers := renderCaptionRow(v, segs, playheadSec, barWidth)

	lines := []string{" " + ruler, " " + lane, " " + markers}
	return RenderInfoBox("Timeline", lines, width)
}

// renderRuler draws tick labels at their pixel positions.
func renderRuler(v geometry.Viewport, totalSec float64, barWidth int) string {
	cells := make([]rune, barWidth)
	for i := range cells {
		cells[i] = ' '
	}

	for _, tick := range geometry.Ticks(v, totalSec, geometry.DefaultTickCount) {
		px := int(math.Round(v.TimeToPixel(tick)))
		label := timeutil.FormatTime(tick)
		// Right-align the final tick's label so it stays inside the bar.
		if px+len(label) > barWidth {
			px = barWidth - len(label)
		}
		if px < 0 {
			continue
		}
		for i, r := range label {
			if px+i < barWidth {
				cells[px+i] = r
			}
		}
	}

	return lipgloss.NewStyle().Foreground(styles.Lavender).Render(string(cells))
}

// renderClipLane draws one cell per pixel: clip blocks, dotted gaps, and
// blank space past the timeline's end.
func renderClipLane(v geometry.Viewport, ranges []timeline.Range, activeClipID string, totalSec float64, barWidth int) string {
	clipStyle := lipgloss.NewStyle().Foreground(styles.Amber)
	activeStyle := lipgloss.NewStyle().Foreground(styles.LightLavender)
	gapStyle := lipgloss.NewStyle().Foreground(styles.Purple)

	var out string
	for x := 0; x < barWidth; x++ {
		t := v.PixelToTime(float64(x) + 0.5)
		if t < 0 || t >= totalSec {
			out += " "
			continue
		}
		r, ok := rangeAt(ranges, t)
		switch {
		case !ok:
			out += " "
		case r.Type == timeline.RangeGap:
			out += gapStyle.Render("┄")
		case r.ClipID == activeClipID:
			out += activeStyle.Render("█")
		default:
			out += clipStyle.Render("█")
		}
	}
	return out
}

// renderCaptionRow draws caption segment spans under the lane, with the
// playhead marker drawn on top.
func renderCaptionRow(v geometry.Viewport, segs []caption.Segment, playheadSec float64, barWidth int) string {
	cells := make([]rune, barWidth)
	for i := range cells {
		cells[i] = ' '
	}

	for _, s := range segs {
		from := int(math.Round(v.TimeToPixel(s.Start)))
		to := int(math.Round(v.TimeToPixel(s.End)))
		for x := from; x <= to && x < barWidth; x++ {
			if x < 0 {
				continue
			}
			cells[x] = '─'
		}
		if from >= 0 && from < barWidth {
			cells[from] = '◆'
		}
	}

	playheadPx := int(math.Round(v.TimeToPixel(playheadSec)))

	capStyle := lipgloss.NewStyle().Foreground(styles.Cyan)
	headStyle := lipgloss.NewStyle().Foreground(styles.Pink).Bold(true)

	var out string
	for x, r := range cells {
		if x == playheadPx {
			out += headStyle.Render("▲")
			continue
		}
		if r == ' ' {
			out += " "
			continue
		}
		out += capStyle.Render(string(r))
	}
	return out
}

// rangeAt finds the range covering a timeline position.
func rangeAt(ranges []timeline.Range, sec float64) (timeline.Range, bool) {
	for _, r := range ranges {
		if sec >= r.StartSec && sec < r.EndSec() {
			return r, true
		}
	}
	return timeline.Range{}, false
}
