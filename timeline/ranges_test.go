package timeline

import (
	"reflect"
	"testing"
)

func TestRangesInsertsGaps(t *testing.T) {
	tl, _, b := twoClipTimeline(t)
	tl.MoveClip(b, 14) // A [0,10), gap [10,14), B [14,19)

	ranges := tl.Ranges()
	if len(ranges) != 3 {
		t.Fatalf("expected 3 ranges, got %d", len(ranges))
	}
	if ranges[0].Type != RangeClip || !approx(ranges[0].StartSec, 0) || !approx(ranges[0].DurationSec, 10) {
		t.Errorf("unexpected first range: %+v", ranges[0])
	}
	if ranges[1].Type != RangeGap || !approx(ranges[1].StartSec, 10) || !approx(ranges[1].DurationSec, 4) {
		t.Errorf("unexpected gap range: %+v", ranges[1])
	}
	if ranges[2].Type != RangeClip || !approx(ranges[2].StartSec, 14) {
		t.Errorf("unexpected last range: %+v", ranges[2])
	}
}

func TestRangesSkipsSubEpsilonGaps(t *testing.T) {
	tl := New()
	ids := tl.AddClips([]NewClip{
		{MediaSourceID: "a", BaseDurationSec: 5},
		{MediaSourceID: "b", BaseDurationSec: 5},
	})
	// A hair of float error between clips must not become a gap.
	tl.MoveClip(ids[1], 5.004)
	for _, r := range tl.Ranges() {
		if r.Type == RangeGap {
			t.Errorf("sub-epsilon interval reported as gap: %+v", r)
		}
	}
}

func TestRangesIdempotent(t *testing.T) {
	tl, _, b := twoClipTimeline(t)
	tl.MoveClip(b, 12.5)

	first := tl.Ranges()
	second := tl.Ranges()
	if !reflect.DeepEqual(first, second) {
		t.Errorf("ranges not idempotent:\n%+v\n%+v", first, second)
	}
}

func TestRangesLeadingGap(t *testing.T) {
	tl := New()
	ids := tl.AddClips([]NewClip{{MediaSourceID: "a", BaseDurationSec: 5}})
	tl.MoveClip(ids[0], 3)

	ranges := tl.Ranges()
	if len(ranges) != 2 || ranges[0].Type != RangeGap || !approx(ranges[0].DurationSec, 3) {
		t.Fatalf("expected leading 3s gap, got %+v", ranges)
	}
}

func TestNextClipAfter(t *testing.T) {
	tl, _, b := twoClipTimeline(t)

	// Exactly at A's end the successor is B, within epsilon.
	c, ok := tl.NextClipAfter(10.0)
	if !ok || c.ID != b {
		t.Fatalf("expected B as successor at 10.0")
	}
	if _, ok := tl.NextClipAfter(15.5); ok {
		t.Error("no successor expected past the last clip")
	}
}
