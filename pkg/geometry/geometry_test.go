package geometry

import (
	"math"
	"testing"
)

func TestVisibleDurationMonotonic(t *testing.T) {
	prev := VisibleDuration(0)
	for z := 0.01; z <= 1.0; z += 0.01 {
		cur := VisibleDuration(z)
		if cur >= prev {
			t.Fatalf("visible duration not strictly decreasing at zoom %.2f: %.2f >= %.2f", z, cur, prev)
		}
		prev = cur
	}
}

func TestVisibleDurationAnchors(t *testing.T) {
	if got := VisibleDuration(0); math.Abs(got-600) > 1e-6 {
		t.Errorf("zoom 0: expected 600s, got %.2f", got)
	}
	if got := VisibleDuration(1); math.Abs(got-10) > 1e-6 {
		t.Errorf("zoom 1: expected 10s, got %.2f", got)
	}
	// The two segments meet continuously at the knee.
	below := VisibleDuration(zoomKnee - 1e-9)
	above := VisibleDuration(zoomKnee + 1e-9)
	if math.Abs(below-above) > 1e-3 {
		t.Errorf("discontinuity at knee: %.4f vs %.4f", below, above)
	}
}

func TestVisibleDurationClampsZoom(t *testing.T) {
	if VisibleDuration(-1) != VisibleDuration(0) {
		t.Error("zoom below range not clamped")
	}
	if VisibleDuration(2) != VisibleDuration(1) {
		t.Error("zoom above range not clamped")
	}
}

func TestPixelsPerSecondUsesReferenceWidthWhenUnmeasured(t *testing.T) {
	measured := Viewport{WidthPx: referenceWidthPx, Zoom: 0.5}
	unmeasured := Viewport{WidthPx: 0, Zoom: 0.5}
	if measured.PixelsPerSecond() != unmeasured.PixelsPerSecond() {
		t.Error("unmeasured viewport should fall back to the reference width")
	}
}

func TestTimePixelRoundTrip(t *testing.T) {
	v := Viewport{WidthPx: 800, ScrollSec: 42.5, Zoom: 0.7}
	for _, sec := range []float64{0, 42.5, 100, 3.1415} {
		back := v.PixelToTime(v.TimeToPixel(sec))
		if math.Abs(back-sec) > 1e-9 {
			t.Errorf("round trip drift at %.4f: got %.9f", sec, back)
		}
	}
}

func TestTicksAlignToScrollBoundary(t *testing.T) {
	v := Viewport{WidthPx: 600, ScrollSec: 25, Zoom: 0.6} // 60s visible
	ticks := Ticks(v, 1000, 7)
	if len(ticks) == 0 {
		t.Fatal("no ticks produced")
	}
	spacing := VisibleDuration(v.Zoom) / 6
	// First tick is the last boundary at or before the scroll position.
	want := math.Floor(v.ScrollSec/spacing) * spacing
	if math.Abs(ticks[0]-want) > 1e-9 {
		t.Errorf("first tick %.4f, want %.4f", ticks[0], want)
	}
	if ticks[0] > v.ScrollSec {
		t.Errorf("first tick %.4f past scroll position %.4f", ticks[0], v.ScrollSec)
	}
}

func TestTicksEndExactlyAtTotalDuration(t *testing.T) {
	v := Viewport{WidthPx: 600, ScrollSec: 0, Zoom: 0.6}
	total := 47.3
	ticks := Ticks(v, total, 7)
	if ticks[len(ticks)-1] != total {
		t.Errorf("last tick %.4f, want exactly %.4f", ticks[len(ticks)-1], total)
	}
}
