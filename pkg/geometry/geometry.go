// Package geometry converts between global timeline seconds and viewport
// pixels for the timeline view. Everything here is a pure function of the
// zoom level, viewport width, and scroll offset.
package geometry

import "math"

const (
	// ZoomMin and ZoomMax bound the linear zoom slider.
	ZoomMin = 0.0
	ZoomMax = 1.0

	// zoomKnee splits the zoom range into a coarse and a fine segment.
	zoomKnee = 0.6

	// Visible-duration anchors for the two exponential segments: the
	// coarse segment spans minutes, the fine segment narrows to ~10s.
	coarseVisibleSec = 600.0
	kneeVisibleSec   = 60.0
	fineVisibleSec   = 10.0

	// referenceWidthPx stands in for the viewport width before it has
	// been measured, so pixels-per-second stays zoom-scaled.
	referenceWidthPx = 960.0

	// DefaultTickCount is the number of ruler ticks across the viewport.
	DefaultTickCount = 7
)

// VisibleDuration maps a zoom level to the duration shown across the
// viewport. Two exponential segments meet at the knee so a linear slider
// feels perceptually even: coarse zoom spans minutes, fine zoom narrows
// toward ten seconds.
func VisibleDuration(zoom float64) float64 {
	if zoom < ZoomMin {
		zoom = ZoomMin
	}
	if zoom > ZoomMax {
		zoom = ZoomMax
	}
	if zoom <= zoomKnee {
		frac := zoom / zoomKnee
		return coarseVisibleSec * math.Pow(kneeVisibleSec/coarseVisibleSec, frac)
	}
	frac := (zoom - zoomKnee) / (ZoomMax - zoomKnee)
	return kneeVisibleSec * math.Pow(fineVisibleSec/kneeVisibleSec, frac)
}

// Viewport describes the visible window onto the timeline.
type Viewport struct {
	// WidthPx is the measured viewport width; zero or negative means
	// unmeasured.
	WidthPx float64
	// ScrollSec is the timeline position at the viewport's left edge.
	ScrollSec float64
	// Zoom is the slider position in [ZoomMin, ZoomMax].
	Zoom float64
}

// PixelsPerSecond returns the rendering scale for the viewport. Before the
// viewport has been measured a reference width keeps the scale zoom-driven.
func (v Viewport) PixelsPerSecond() float64 {
	width := v.WidthPx
	if width <= 0 {
		width = referenceWidthPx
	}
	return width / VisibleDuration(v.Zoom)
}

// TimeToPixel converts a global timeline position to a viewport x offset.
func (v Viewport) TimeToPixel(sec float64) float64 {
	return (sec - v.ScrollSec) * v.PixelsPerSecond()
}

// PixelToTime converts a viewport x offset back to a timeline position.
func (v Viewport) PixelToTime(px float64) float64 {
	return v.ScrollSec + px/v.PixelsPerSecond()
}

// Ticks returns ruler tick times for the viewport. Ticks are spaced at
// visibleDuration/(tickCount-1), aligned to the last tick boundary at or
// before the scroll position, and the timeline's total duration is always
// included as a final tick.
func Ticks(v Viewport, totalDurationSec float64, tickCount int) []float64 {
	if tickCount < 2 {
		tickCount = DefaultTickCount
	}
	visible := VisibleDuration(v.Zoom)
	spacing := visible / float64(tickCount-1)
	start := math.Floor(v.ScrollSec/spacing) * spacing
	if start < 0 {
		start = 0
	}

	var ticks []float64
	for tick := start; tick <= v.ScrollSec+visible+spacing/2; tick += spacing {
		if tick >= totalDurationSec-spacing/100 {
			break
		}
		ticks = append(ticks, tick)
	}
	// The final tick always lands exactly on the timeline's end.
	if totalDurationSec > 0 {
		ticks = append(ticks, totalDurationSec)
	}
	return ticks
}
