package caption

import (
	"math"
	"testing"
)

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

// threeSegmentTrack builds segments [2,4), [12,14), [14,16) on a 60s media.
func threeSegmentTrack() (*Track, []Segment) {
	t := NewTrack("media-1", 60)
	a, _ := t.Add(2, 4, "first")
	b, _ := t.Add(12, 14, "second")
	c, _ := t.Add(14, 16, "third")
	return t, []Segment{a, b, c}
}

func TestAddKeepsOrder(t *testing.T) {
	tr := NewTrack("m", 60)
	tr.Add(10, 12, "later")
	tr.Add(2, 4, "earlier")
	segs := tr.Segments()
	if segs[0].Text != "earlier" || segs[1].Text != "later" {
		t.Errorf("segments not ordered by start: %+v", segs)
	}
}

func TestAddClampsAgainstNeighbor(t *testing.T) {
	tr := NewTrack("m", 60)
	tr.Add(0, 5, "a")
	seg, ok := tr.Add(3, 8, "b") // overlaps a: start clamped to 5
	if !ok {
		t.Fatal("add rejected unexpectedly")
	}
	if seg.Start < 5-1e-9 {
		t.Errorf("expected overlap clamped, got start %.4f", seg.Start)
	}
}

func TestAddRejectedWhenGapBelowFloor(t *testing.T) {
	tr := NewTrack("m", 60)
	tr.Add(0, 5, "a")
	tr.Add(5.1, 8, "b")

	// The 0.1s gap between the neighbors cannot fit a segment.
	if _, ok := tr.Add(5.0, 7, "c"); ok {
		t.Fatal("add into a gap below the duration floor should be rejected")
	}
	if tr.Len() != 2 {
		t.Fatalf("rejected add must not leave a segment behind, got %d", tr.Len())
	}
	for _, seg := range tr.Segments() {
		if seg.DurationSec() < MinSegmentDuration-1e-9 {
			t.Errorf("segment %q below duration floor: %.4f", seg.Text, seg.DurationSec())
		}
	}

	// Same at the media's end: the last segment leaves only 0.05s of room.
	tr2 := NewTrack("m", 60)
	tr2.Add(50, 59.95, "long")
	if _, ok := tr2.Add(59.96, 61, "tail"); ok {
		t.Error("add into the tail gap below the duration floor should be rejected")
	}
}

func TestRestoreKeepsIDsAndOrders(t *testing.T) {
	tr := NewTrack("m", 60)
	tr.Restore([]Segment{
		{ID: "seg-b", Start: 10, End: 12, Text: "later"},
		{ID: "seg-a", Start: 2, End: 4, Text: "earlier"},
	})
	segs := tr.Segments()
	if len(segs) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(segs))
	}
	if segs[0].ID != "seg-a" || segs[1].ID != "seg-b" {
		t.Errorf("restore did not reorder by start: %s, %s", segs[0].ID, segs[1].ID)
	}

	// Restored segments are editable like any other.
	if !tr.SetText("seg-a", "changed") {
		t.Error("restored segment not addressable by id")
	}
}

func TestGapInsertShiftsFollowingSegments(t *testing.T) {
	tr := NewTrack("media-1", 60)
	tr.Add(2, 4, "first")
	ending, _ := tr.Add(10, 12, "ending at 12")
	at12, _ := tr.Add(12, 14, "at [12,14)")
	at14, _ := tr.Add(14, 16, "at [14,16)")

	// Inserting 1000ms after the segment ending at t=12.0: wait, the gap
	// is inserted after "ending at 12", so [12,14) and [14,16) shift.
	if !tr.InsertGapAfter(ending.ID, 1.0) {
		t.Fatal("insert rejected unexpectedly")
	}
	got12, _, _ := tr.Get(at12.ID)
	got14, _, _ := tr.Get(at14.ID)
	if !approx(got12.Start, 13.0) || !approx(got12.End, 15.0) {
		t.Errorf("segment [12,14) should shift to [13,15), got [%.2f,%.2f)", got12.Start, got12.End)
	}
	if !approx(got14.Start, 15.0) || !approx(got14.End, 17.0) {
		t.Errorf("segment [14,16) should shift to [15,17), got [%.2f,%.2f)", got14.Start, got14.End)
	}
	gotEnding, _, _ := tr.Get(ending.ID)
	if !approx(gotEnding.Start, 10.0) || !approx(gotEnding.End, 12.0) {
		t.Errorf("anchor segment must not move, got [%.2f,%.2f)", gotEnding.Start, gotEnding.End)
	}
}

func TestGapInsertIsTransactional(t *testing.T) {
	tr := NewTrack("m", 20)
	first, _ := tr.Add(2, 4, "a")
	tr.Add(10, 12, "b")
	tr.Add(18, 19.5, "c")

	// Shifting by 3 would push the last segment past the media end: the
	// whole insert is rejected and nothing moves.
	if tr.InsertGapAfter(first.ID, 3.0) {
		t.Fatal("insert past media end should be rejected")
	}
	segs := tr.Segments()
	if !approx(segs[1].Start, 10) || !approx(segs[2].Start, 18) {
		t.Errorf("rejected insert must not move segments: %+v", segs)
	}
}

func TestGapRemovalCappedAtAvailableGap(t *testing.T) {
	tr := NewTrack("m", 60)
	a, _ := tr.Add(8, 10, "ending at 10")
	b, _ := tr.Add(12, 14, "starting at 12")

	// Requesting more than the 2.0s gap is rejected outright.
	if tr.RemoveGapAfter(a.ID, 3.0) {
		t.Fatal("removal beyond available gap should be rejected")
	}
	got, _, _ := tr.Get(b.ID)
	if !approx(got.Start, 12) {
		t.Errorf("rejected removal must not move segments, got start %.4f", got.Start)
	}

	// The exact available amount closes the gap to exactly zero.
	if !tr.RemoveGapAfter(a.ID, 2.0) {
		t.Fatal("removal of the exact gap should succeed")
	}
	got, _, _ = tr.Get(b.ID)
	if !approx(got.Start, 10.0) {
		t.Errorf("gap should close to exactly 0, next start %.6f", got.Start)
	}
	gap, _ := tr.GapAfter(a.ID)
	if !approx(gap, 0) {
		t.Errorf("expected zero gap, got %.6f", gap)
	}
}

func TestSetTextAndDelete(t *testing.T) {
	tr, segs := threeSegmentTrack()
	if !tr.SetText(segs[0].ID, "updated") {
		t.Fatal("set text failed")
	}
	got, _, _ := tr.Get(segs[0].ID)
	if got.Text != "updated" {
		t.Errorf("text not updated: %q", got.Text)
	}
	if !tr.Delete(segs[1].ID) || tr.Len() != 2 {
		t.Error("delete failed")
	}
}
