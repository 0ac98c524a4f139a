package input

import (
	"testing"
	"time"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

// fakeTransport records the command stream the adapter issues.
type fakeTransport struct {
	current  float64
	duration float64
	calls    []string
	scrubs   []float64
	seeks    []float64
	previews int
}

func (f *fakeTransport) BeginScrub()      { f.calls = append(f.calls, "begin") }
func (f *fakeTransport) EndScrub()        { f.calls = append(f.calls, "end") }
func (f *fakeTransport) PreviewSeek()     { f.previews++ }
func (f *fakeTransport) CurrentTime() float64 { return f.current }
func (f *fakeTransport) Duration() float64    { return f.duration }

func (f *fakeTransport) Scrub(sec float64) {
	f.calls = append(f.calls, "scrub")
	f.scrubs = append(f.scrubs, sec)
	f.current = sec
}

func (f *fakeTransport) Seek(sec float64) {
	f.calls = append(f.calls, "seek")
	f.seeks = append(f.seeks, sec)
	f.current = sec
}

func newAdapter() (*Adapter, *fakeTransport, *fakeClock) {
	tr := &fakeTransport{current: 10, duration: 100}
	clock := &fakeClock{t: time.Unix(500, 0)}
	return NewAdapter(tr, clock), tr, clock
}

func TestDragLifecycle(t *testing.T) {
	a, tr, _ := newAdapter()

	a.BeginDrag()
	if !a.Dragging() || a.Session().OriginSec != 10 {
		t.Fatalf("session not opened at origin: %+v", a.Session())
	}
	a.DragTo(25)
	a.DragTo(30)
	a.EndDrag()

	if a.Dragging() {
		t.Error("session should be discarded at commit")
	}
	if tr.calls[0] != "begin" || tr.calls[len(tr.calls)-1] != "end" {
		t.Errorf("unexpected command order: %v", tr.calls)
	}
	if tr.scrubs[len(tr.scrubs)-1] != 30 {
		t.Errorf("final target lost: %v", tr.scrubs)
	}
}

func TestCancelRestoresOrigin(t *testing.T) {
	a, tr, _ := newAdapter()
	a.BeginDrag()
	a.DragTo(70)
	a.CancelDrag()

	if tr.scrubs[len(tr.scrubs)-1] != 10 {
		t.Errorf("cancel should scrub back to origin 10, got %v", tr.scrubs)
	}
}

func TestPreviewThrottleIsSingleFlight(t *testing.T) {
	a, tr, clock := newAdapter()
	a.BeginDrag()

	// A burst of pointer moves inside one frame yields one preview.
	for i := 0; i < 20; i++ {
		a.DragTo(float64(20 + i))
		a.Poll()
	}
	if tr.previews != 1 {
		t.Fatalf("expected a single in-flight preview, got %d", tr.previews)
	}

	// The next frame releases exactly one more.
	a.DragTo(55)
	clock.Advance(50 * time.Millisecond)
	a.Poll()
	a.Poll()
	if tr.previews != 2 {
		t.Errorf("expected one preview per frame, got %d", tr.previews)
	}
}

func TestPollWithoutPendingTargetIsNoop(t *testing.T) {
	a, tr, clock := newAdapter()
	a.BeginDrag()
	a.DragTo(42)
	a.Poll()
	clock.Advance(time.Second)
	a.Poll() // nothing new since the last preview
	if tr.previews != 1 {
		t.Errorf("poll must not re-issue stale targets, got %d previews", tr.previews)
	}
}

func TestNudgeIgnoredMidDrag(t *testing.T) {
	a, tr, _ := newAdapter()
	a.BeginDrag()
	a.Nudge(5)
	if len(tr.seeks) != 0 {
		t.Error("nudge must not fire during a drag")
	}
	a.EndDrag()
	a.Nudge(5)
	if len(tr.seeks) != 1 {
		t.Error("nudge should seek outside a drag")
	}
}
