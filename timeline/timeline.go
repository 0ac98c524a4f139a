package timeline

import (
	"math"
	"sort"

	"github.com/google/uuid"
)

// Timeline is the mutable, normalized clip set. It is not safe for
// concurrent use; mutations happen synchronously in response to user
// operations.
type Timeline struct {
	clips   []Clip
	nextSeq int
}

// New returns an empty timeline.
func New() *Timeline {
	return &Timeline{}
}

// Len returns the number of clips.
func (t *Timeline) Len() int {
	return len(t.clips)
}

// Clips returns a copy of the normalized clip set, sorted by start.
func (t *Timeline) Clips() []Clip {
	out := make([]Clip, len(t.clips))
	copy(out, t.clips)
	return out
}

// Get returns the clip with the given id.
func (t *Timeline) Get(id string) (Clip, bool) {
	i := t.index(id)
	if i < 0 {
		return Clip{}, false
	}
	return t.clips[i], true
}

// AddClips appends clips at the current end of the timeline, in order.
// Guessed base durations below the minimum are floored so no zero-length
// clip can exist. Returns the ids of the created clips.
func (t *Timeline) AddClips(items []NewClip) []string {
	end := t.TotalDuration()
	ids := make([]string, 0, len(items))
	for _, item := range items {
		base := item.BaseDurationSec
		if base < MinClipDuration {
			base = MinClipDuration
		}
		c := Clip{
			ID:              uuid.NewString(),
			MediaSourceID:   item.MediaSourceID,
			StartSec:        end,
			BaseDurationSec: base,
			TrimStartSec:    0,
			TrimEndSec:      base,
			seq:             t.nextSeq,
		}
		t.nextSeq++
		t.clips = append(t.clips, c)
		ids = append(ids, c.ID)
		end += base
	}
	t.normalize()
	return ids
}

// Restore replaces the clip set with previously persisted clips, keeping
// their ids and trims. Normalization reapplies the ordering invariants.
func (t *Timeline) Restore(clips []Clip) {
	t.clips = make([]Clip, len(clips))
	copy(t.clips, clips)
	for i := range t.clips {
		t.clips[i].seq = t.nextSeq
		t.nextSeq++
	}
	t.normalize()
}

// MoveClip moves a clip to a new start position, clamped between the end
// of its previous neighbor and the latest start that keeps it clear of the
// next neighbor. Returns false if the clip does not exist.
func (t *Timeline) MoveClip(id string, newStartSec float64) bool {
	i := t.index(id)
	if i < 0 {
		return false
	}
	c := t.clips[i]
	lo := 0.0
	if i > 0 {
		lo = t.clips[i-1].EndSec()
	}
	hi := math.Inf(1)
	if i < len(t.clips)-1 {
		hi = t.clips[i+1].StartSec - c.DurationSec()
	}
	t.clips[i].StartSec = clamp(newStartSec, lo, hi)
	t.normalize()
	return true
}

// ResizeClipLeft moves the clip's left edge by deltaSec, adjusting start
// and trim-start together. The delta is clamped so the trim stays within
// the source, the duration stays at or above the floor, and the clip never
// crosses its previous neighbor.
func (t *Timeline) ResizeClipLeft(id string, deltaSec float64) bool {
	i := t.index(id)
	if i < 0 {
		return false
	}
	c := t.clips[i]
	lo := -c.TrimStartSec
	if i > 0 {
		lo = math.Max(lo, t.clips[i-1].EndSec()-c.StartSec)
	}
	lo = math.Max(lo, -c.StartSec)
	hi := c.DurationSec() - MinClipDuration
	d := clamp(deltaSec, lo, hi)
	t.clips[i].StartSec += d
	t.clips[i].TrimStartSec += d
	t.normalize()
	return true
}

// ResizeClipRight moves the clip's right edge by deltaSec, adjusting
// trim-end. The delta is clamped against the source extent, the duration
// floor, and the next neighbor's start.
func (t *Timeline) ResizeClipRight(id string, deltaSec float64) bool {
	i := t.index(id)
	if i < 0 {
		return false
	}
	c := t.clips[i]
	hi := c.BaseDurationSec - c.TrimEndSec
	if i < len(t.clips)-1 {
		hi = math.Min(hi, t.clips[i+1].StartSec-c.EndSec())
	}
	lo := -(c.DurationSec() - MinClipDuration)
	d := clamp(deltaSec, lo, hi)
	t.clips[i].TrimEndSec += d
	t.normalize()
	return true
}

// SplitClip cuts a clip at a global timeline position, replacing it with
// two new clips that inherit sub-ranges of the original trim. The split is
// rejected (no mutation) when the cut point lies within MinClipDuration of
// either edge. Returns the ids of the left and right halves.
func (t *Timeline) SplitClip(id string, atGlobalSec float64) (leftID, rightID string, ok bool) {
	i := t.index(id)
	if i < 0 {
		return "", "", false
	}
	c := t.clips[i]
	offset := atGlobalSec - c.StartSec
	if offset < MinClipDuration || c.DurationSec()-offset < MinClipDuration {
		return "", "", false
	}
	left := Clip{
		ID:              uuid.NewString(),
		MediaSourceID:   c.MediaSourceID,
		StartSec:        c.StartSec,
		BaseDurationSec: c.BaseDurationSec,
		TrimStartSec:    c.TrimStartSec,
		TrimEndSec:      c.TrimStartSec + offset,
		seq:             t.nextSeq,
	}
	t.nextSeq++
	right := Clip{
		ID:              uuid.NewString(),
		MediaSourceID:   c.MediaSourceID,
		StartSec:        atGlobalSec,
		BaseDurationSec: c.BaseDurationSec,
		TrimStartSec:    c.TrimStartSec + offset,
		TrimEndSec:      c.TrimEndSec,
		seq:             t.nextSeq,
	}
	t.nextSeq++
	t.clips[i] = left
	t.clips = append(t.clips, Clip{})
	copy(t.clips[i+2:], t.clips[i+1:])
	t.clips[i+1] = right
	t.normalize()
	return left.ID, right.ID, true
}

// DeleteClip removes a clip. Callers that track an active clip are
// responsible for reselecting; the timeline itself stays passive.
func (t *Timeline) DeleteClip(id string) bool {
	i := t.index(id)
	if i < 0 {
		return false
	}
	t.clips = append(t.clips[:i], t.clips[i+1:]...)
	t.normalize()
	return true
}

// DeleteClipsForSource removes every clip referencing the given media
// source, e.g. when the owning job disappears. Returns the removed ids.
func (t *Timeline) DeleteClipsForSource(mediaSourceID string) []string {
	var removed []string
	kept := t.clips[:0]
	for _, c := range t.clips {
		if c.MediaSourceID == mediaSourceID {
			removed = append(removed, c.ID)
			continue
		}
		kept = append(kept, c)
	}
	t.clips = kept
	t.normalize()
	return removed
}

// SetSourceDuration corrects the base duration of every clip referencing
// the source after its real duration became known. A clip that was still
// untrimmed is re-stretched to the new full length; a trimmed clip keeps
// its trim, re-clamped into the new bounds.
func (t *Timeline) SetSourceDuration(mediaSourceID string, durationSec float64) {
	if durationSec < MinClipDuration {
		durationSec = MinClipDuration
	}
	for i := range t.clips {
		c := &t.clips[i]
		if c.MediaSourceID != mediaSourceID {
			continue
		}
		if c.untrimmed() {
			c.BaseDurationSec = durationSec
			c.TrimStartSec = 0
			c.TrimEndSec = durationSec
			continue
		}
		c.BaseDurationSec = durationSec
		if c.TrimEndSec > durationSec {
			c.TrimEndSec = durationSec
		}
		if c.TrimStartSec > durationSec-MinClipDuration {
			c.TrimStartSec = durationSec - MinClipDuration
		}
		if c.TrimEndSec-c.TrimStartSec < MinClipDuration {
			c.TrimEndSec = c.TrimStartSec + MinClipDuration
		}
	}
	t.normalize()
}

// normalize restores the invariants after a mutation: clips sorted by
// start (insertion order breaks ties), starts non-negative, and no two
// clips overlapping. Overlap is resolved by shrinking the earlier clip's
// trim toward the floor, then pushing the later clip right if the floor
// was reached.
func (t *Timeline) normalize() {
	sort.SliceStable(t.clips, func(i, j int) bool {
		if t.clips[i].StartSec != t.clips[j].StartSec {
			return t.clips[i].StartSec < t.clips[j].StartSec
		}
		return t.clips[i].seq < t.clips[j].seq
	})
	for i := range t.clips {
		c := &t.clips[i]
		if c.StartSec < 0 {
			c.StartSec = 0
		}
		if c.TrimEndSec-c.TrimStartSec < MinClipDuration {
			c.TrimEndSec = math.Min(c.TrimStartSec+MinClipDuration, c.BaseDurationSec)
			c.TrimStartSec = c.TrimEndSec - MinClipDuration
			if c.TrimStartSec < 0 {
				c.TrimStartSec = 0
				c.TrimEndSec = MinClipDuration
			}
		}
		if i == 0 {
			continue
		}
		prev := &t.clips[i-1]
		if prev.EndSec() > c.StartSec+gapEpsilon {
			room := c.StartSec - prev.StartSec
			if room >= MinClipDuration {
				prev.TrimEndSec = prev.TrimStartSec + room
			} else {
				prev.TrimEndSec = prev.TrimStartSec + MinClipDuration
				c.StartSec = prev.EndSec()
			}
		}
	}
}

// index returns the position of the clip with the given id, or -1.
func (t *Timeline) index(id string) int {
	for i := range t.clips {
		if t.clips[i].ID == id {
			return i
		}
	}
	return -1
}

// clamp bounds v into [lo, hi].
func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
