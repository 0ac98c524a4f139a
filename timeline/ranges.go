package timeline

// RangeType distinguishes covered and uncovered timeline intervals.
type RangeType string

const (
	RangeClip RangeType = "clip"
	RangeGap  RangeType = "gap"
)

// Range is one interval of the derived timeline view: either a clip or a
// gap between clips. Ranges are a non-owned projection; mutating them has
// no effect on the timeline.
type Range struct {
	Type        RangeType
	StartSec    float64
	DurationSec float64
	// ClipID is set only for clip ranges.
	ClipID string
}

// EndSec returns the range's end position.
func (r Range) EndSec() float64 {
	return r.StartSec + r.DurationSec
}

// Ranges scans the normalized clip set into an alternating sequence of
// clip and gap intervals. A gap is emitted wherever a clip starts more
// than gapEpsilon past the running cursor. The scan is idempotent: the
// same clip set always yields the same boundaries.
func (t *Timeline) Ranges() []Range {
	out := make([]Range, 0, len(t.clips)*2)
	cursor := 0.0
	for _, c := range t.clips {
		if c.StartSec > cursor+gapEpsilon {
			out = append(out, Range{
				Type:        RangeGap,
				StartSec:    cursor,
				DurationSec: c.StartSec - cursor,
			})
		}
		out = append(out, Range{
			Type:        RangeClip,
			StartSec:    c.StartSec,
			DurationSec: c.DurationSec(),
			ClipID:      c.ID,
		})
		cursor = c.EndSec()
	}
	return out
}

// TotalDuration returns the end of the last clip, or 0 for an empty
// timeline.
func (t *Timeline) TotalDuration() float64 {
	max := 0.0
	for _, c := range t.clips {
		if end := c.EndSec(); end > max {
			max = end
		}
	}
	return max
}

// ClipAt returns the clip covering a global timeline position, using
// half-open intervals [start, end) so a position exactly on a boundary
// resolves to the later clip.
func (t *Timeline) ClipAt(globalSec float64) (Clip, bool) {
	for _, c := range t.clips {
		if globalSec >= c.StartSec && globalSec < c.EndSec() {
			return c, true
		}
	}
	return Clip{}, false
}

// NextClipAfter returns the first clip starting at or after the given
// position, within BoundaryEpsilon. Used by the scheduler to find the
// successor when a clip or gap finishes.
func (t *Timeline) NextClipAfter(globalSec float64) (Clip, bool) {
	for _, c := range t.clips {
		if c.StartSec >= globalSec-BoundaryEpsilon {
			return c, true
		}
	}
	return Clip{}, false
}

// FirstClip returns the earliest clip on the timeline.
func (t *Timeline) FirstClip() (Clip, bool) {
	if len(t.clips) == 0 {
		return Clip{}, false
	}
	return t.clips[0], true
}
