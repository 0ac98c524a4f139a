package caption

// DragMode identifies which handle of a segment was grabbed.
type DragMode string

const (
	DragMove        DragMode = "move"
	DragResizeStart DragMode = "resize-start"
	DragResizeEnd   DragMode = "resize-end"
)

// Drag is one in-flight timing edit on a single segment. Tentative values
// are applied to the track immediately (optimistic local state); Commit
// returns the final segment for persistence.
type Drag struct {
	track     *Track
	segmentID string
	mode      DragMode
	origStart float64
	origEnd   float64
}

// BeginDrag opens a drag session on a segment handle.
func (t *Track) BeginDrag(id string, mode DragMode) (*Drag, bool) {
	seg, _, ok := t.Get(id)
	if !ok {
		return nil, false
	}
	return &Drag{
		track:     t,
		segmentID: id,
		mode:      mode,
		origStart: seg.Start,
		origEnd:   seg.End,
	}, true
}

// Update applies the pointer delta to the grabbed handle, clamped against
// the neighboring segments and the media duration, and writes the result
// into the track. Returns the clamped segment.
func (d *Drag) Update(deltaSec float64) Segment {
	t := d.track
	_, i, ok := t.Get(d.segmentID)
	if !ok {
		return Segment{}
	}

	prevEnd := 0.0
	if i > 0 {
		prevEnd = t.segs[i-1].End
	}
	nextStart := t.durationSec
	if i < len(t.segs)-1 {
		nextStart = t.segs[i+1].Start
	}

	start, end := d.origStart, d.origEnd
	switch d.mode {
	case DragMove:
		length := end - start
		start = clampF(start+deltaSec, prevEnd, nextStart-length)
		end = start + length
	case DragResizeStart:
		start = clampF(start+deltaSec, prevEnd, end-MinSegmentDuration)
	case DragResizeEnd:
		end = clampF(end+deltaSec, start+MinSegmentDuration, nextStart)
	}

	t.segs[i].Start = start
	t.segs[i].End = end
	return t.segs[i]
}

// Commit closes the drag and returns the final segment. The caller hands
// it to the outbox; persistence failure never rolls the track back.
func (d *Drag) Commit() (Segment, bool) {
	seg, _, ok := d.track.Get(d.segmentID)
	return seg, ok
}

func clampF(v, lo, hi float64) float64 {
	if hi < lo {
		hi = lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
