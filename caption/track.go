// Package caption models the caption segments attached to one media
// source and the interactive timing edits applied to them. Segment times
// live in the media's native time base, not the composed timeline.
package caption

import (
	"sort"

	"github.com/google/uuid"
)

const (
	// MinSegmentDuration is the floor for a caption segment in seconds.
	MinSegmentDuration = 0.2

	// boundaryEpsilon masks float jitter in gap arithmetic.
	boundaryEpsilon = 0.001
)

// Segment is one caption with a timing range and text.
type Segment struct {
	ID    string
	Start float64
	End   float64
	Text  string
}

// DurationSec returns the segment length.
func (s Segment) DurationSec() float64 {
	return s.End - s.Start
}

// Track is the ordered, non-overlapping caption set for one media source.
// It is the only writer of timing fields during drags; persistence happens
// asynchronously through the outbox and never rolls local edits back.
type Track struct {
	mediaID     string
	durationSec float64
	segs        []Segment
}

// NewTrack creates an empty track bounded by the media's total duration.
func NewTrack(mediaID string, durationSec float64) *Track {
	return &Track{mediaID: mediaID, durationSec: durationSec}
}

// MediaID returns the owning media source id.
func (t *Track) MediaID() string { return t.mediaID }

// DurationSec returns the media duration edits are clamped against.
func (t *Track) DurationSec() float64 { return t.durationSec }

// SetDuration updates the clamp bound after the media's real duration
// became known.
func (t *Track) SetDuration(durationSec float64) { t.durationSec = durationSec }

// Len returns the number of segments.
func (t *Track) Len() int { return len(t.segs) }

// Restore replaces the segment set with previously persisted segments,
// keeping their ids. Ordering by start time is restored.
func (t *Track) Restore(segs []Segment) {
	t.segs = make([]Segment, len(segs))
	copy(t.segs, segs)
	sort.SliceStable(t.segs, func(i, j int) bool { return t.segs[i].Start < t.segs[j].Start })
}

// Segments returns a copy of the ordered segment list.
func (t *Track) Segments() []Segment {
	out := make([]Segment, len(t.segs))
	copy(out, t.segs)
	return out
}

// Get returns the segment with the given id and its index.
func (t *Track) Get(id string) (Segment, int, bool) {
	for i, s := range t.segs {
		if s.ID == id {
			return s, i, true
		}
	}
	return Segment{}, -1, false
}

// Add inserts a segment, clamped against its neighbors and the media
// duration, and returns it. Ordering is restored by start time. The add is
// rejected when the gap covering the start cannot fit MinSegmentDuration.
func (t *Track) Add(start, end float64, text string) (Segment, bool) {
	seg := Segment{ID: uuid.NewString(), Start: start, End: end, Text: text}
	if seg.End-seg.Start < MinSegmentDuration {
		seg.End = seg.Start + MinSegmentDuration
	}
	t.segs = append(t.segs, seg)
	sort.SliceStable(t.segs, func(i, j int) bool { return t.segs[i].Start < t.segs[j].Start })
	_, i, _ := t.Get(seg.ID)

	lo := 0.0
	if i > 0 {
		lo = t.segs[i-1].End
	}
	hi := t.durationSec
	if i < len(t.segs)-1 {
		hi = t.segs[i+1].Start
	}
	if hi-lo < MinSegmentDuration-boundaryEpsilon {
		t.segs = append(t.segs[:i], t.segs[i+1:]...)
		return Segment{}, false
	}

	t.segs[i] = t.clampAt(i, seg.Start, seg.End)
	return t.segs[i], true
}

// Delete removes a segment.
func (t *Track) Delete(id string) bool {
	_, i, ok := t.Get(id)
	if !ok {
		return false
	}
	t.segs = append(t.segs[:i], t.segs[i+1:]...)
	return true
}

// SetText replaces a segment's text.
func (t *Track) SetText(id, text string) bool {
	_, i, ok := t.Get(id)
	if !ok {
		return false
	}
	t.segs[i].Text = text
	return true
}

// GapAfter returns the uncovered interval between a segment's end and the
// next segment's start (or the media end for the last segment).
func (t *Track) GapAfter(id string) (float64, bool) {
	_, i, ok := t.Get(id)
	if !ok {
		return 0, false
	}
	if i == len(t.segs)-1 {
		return t.durationSec - t.segs[i].End, true
	}
	return t.segs[i+1].Start - t.segs[i].End, true
}

// InsertGapAfter shifts every segment after the given one later by
// deltaSec, applied transactionally: either all following segments move
// or none do. The insert is rejected when the shifted tail would pass the
// media's end.
func (t *Track) InsertGapAfter(id string, deltaSec float64) bool {
	if deltaSec <= 0 {
		return false
	}
	_, i, ok := t.Get(id)
	if !ok {
		return false
	}
	if i < len(t.segs)-1 {
		last := t.segs[len(t.segs)-1]
		if last.End+deltaSec > t.durationSec+boundaryEpsilon {
			return false
		}
	}
	for j := i + 1; j < len(t.segs); j++ {
		t.segs[j].Start += deltaSec
		t.segs[j].End += deltaSec
	}
	return true
}

// RemoveGapAfter shifts every segment after the given one earlier by
// deltaSec, closing the gap between it and its successor. Requests larger
// than the available gap are rejected; the exact available amount closes
// the gap to zero.
func (t *Track) RemoveGapAfter(id string, deltaSec float64) bool {
	if deltaSec <= 0 {
		return false
	}
	gap, ok := t.GapAfter(id)
	if !ok {
		return false
	}
	if deltaSec > gap+boundaryEpsilon {
		return false
	}
	_, i, _ := t.Get(id)
	for j := i + 1; j < len(t.segs); j++ {
		t.segs[j].Start -= deltaSec
		t.segs[j].End -= deltaSec
	}
	return true
}

// clampAt bounds a tentative (start, end) for the segment at index i
// against its neighbors, the media duration, and the duration floor.
// Boundary violations are never errors; the nearest valid value wins.
func (t *Track) clampAt(i int, start, end float64) Segment {
	seg := t.segs[i]
	lo := 0.0
	if i > 0 {
		lo = t.segs[i-1].End
	}
	hi := t.durationSec
	if i < len(t.segs)-1 {
		hi = t.segs[i+1].Start
	}

	length := end - start
	if length < MinSegmentDuration {
		length = MinSegmentDuration
	}
	if length > hi-lo {
		length = hi - lo
	}
	if start < lo {
		start = lo
	}
	if start+length > hi {
		start = hi - length
	}
	seg.Start = start
	seg.End = start + length
	return seg
}
