package playback

import (
	"math"
	"testing"
	"time"
)

func TestPlayResolvesClipAndSeeksLocalOffset(t *testing.T) {
	r := newRig()
	r.addSource("srcA", "video", "a.mp4", 10)
	r.tl.AddClips(NewClipList("srcA", 10))

	r.sched.Seek(4.0)
	r.sched.Play()

	if got := r.sched.State().Kind; got != StatePlayingClip {
		t.Fatalf("expected playing-clip, got %s", got)
	}
	if r.slot0.loaded != "a.mp4" {
		t.Errorf("expected a.mp4 loaded, got %q", r.slot0.loaded)
	}
	if math.Abs(r.slot0.seekedTo-4.0) > 1e-9 {
		t.Errorf("expected seek to local 4.0, got %.4f", r.slot0.seekedTo)
	}
	if !r.slot0.playing {
		t.Error("expected active slot playing")
	}
}

func TestTrimmedClipSeeksTrimOffset(t *testing.T) {
	r := newRig()
	r.addSource("srcA", "video", "a.mp4", 20)
	ids := r.tl.AddClips(NewClipList("srcA", 20))
	r.tl.ResizeClipLeft(ids[0], 3) // trim [3,20), clip at [3,20)

	r.sched.Seek(5.0) // 2s into the clip on the timeline
	r.sched.Play()

	// Clip sits at [3,20) with trim start 3: global 5 -> local 5.
	if math.Abs(r.slot0.seekedTo-5.0) > 1e-9 {
		t.Errorf("expected local seek 5.0, got %.4f", r.slot0.seekedTo)
	}
}

func TestSingleClipFinishesToIdle(t *testing.T) {
	r := newRig()
	r.addSource("srcA", "video", "a.mp4", 5)
	r.tl.AddClips(NewClipList("srcA", 5))

	r.sched.Seek(4.9)
	r.sched.Play()
	if !r.sched.IsPlaying() {
		t.Fatal("expected playback running")
	}

	r.slot0.curTime = 4.99
	r.tick(50 * time.Millisecond)

	if got := r.sched.State().Kind; got != StateIdle {
		t.Fatalf("expected idle after finishing last clip, got %s", got)
	}
	if r.sched.IsPlaying() {
		t.Error("expected isPlaying=false at end of timeline")
	}
	if math.Abs(r.sched.CurrentTime()-5.0) > 0.05 {
		t.Errorf("expected cursor near 5.0, got %.4f", r.sched.CurrentTime())
	}
	if r.slot0.playing {
		t.Error("expected media paused at end")
	}
}

func TestGapTraversalAdvancesOnWallClock(t *testing.T) {
	r := newRig()
	r.addSource("srcA", "video", "a.mp4", 2)
	r.addSource("srcB", "video", "b.mp4", 5)
	ids := r.tl.AddClips(append(NewClipList("srcA", 2), NewClipList("srcB", 5)...))
	r.tl.MoveClip(ids[1], 5) // A [0,2), gap [2,5), B [5,10)

	r.sched.Play()
	r.slot0.curTime = 1.99
	r.tick(20 * time.Millisecond)

	if got := r.sched.State().Kind; got != StatePlayingGap {
		t.Fatalf("expected playing-gap after clip end, got %s", got)
	}
	if r.slot0.playing {
		t.Error("expected media paused during gap")
	}

	// Advance wall clock through the gap.
	r.tick(3050 * time.Millisecond)

	// B is a different source of the same kind: a swap is in flight.
	if got := r.sched.State().Kind; got != StateAwaitingSwap {
		t.Fatalf("expected awaiting-swap at gap end, got %s", got)
	}
	if r.slot1.loaded != "b.mp4" {
		t.Errorf("expected b.mp4 preloading in idle slot, got %q", r.slot1.loaded)
	}

	// Next poll starts hidden playback in the preloaded slot; the flip
	// waits for that slot's first rendered frame.
	r.tick(20 * time.Millisecond)
	if !r.slot1.playing {
		t.Error("expected hidden playback in the preloaded slot")
	}
	r.slot1.presented = true
	r.tick(20 * time.Millisecond)
	if got := r.sched.State().Kind; got != StatePlayingClip {
		t.Fatalf("expected playing-clip after swap, got %s", got)
	}
	if r.buffers.Active() != r.slot1 {
		t.Error("expected slot1 active after swap")
	}
}

func TestAdjacentSameSourceContinuesWithoutSwap(t *testing.T) {
	r := newRig()
	r.addSource("srcA", "video", "a.mp4", 20)
	ids := r.tl.AddClips(NewClipList("srcA", 20))
	leftID, _, ok := r.tl.SplitClip(ids[0], 8)
	if !ok {
		t.Fatal("split failed")
	}

	r.sched.Play()
	if r.sched.State().ClipID != leftID {
		t.Fatalf("expected left half active")
	}
	r.slot0.curTime = 7.995
	r.tick(20 * time.Millisecond)

	if got := r.sched.State().Kind; got != StatePlayingClip {
		t.Fatalf("expected seamless continue, got %s", got)
	}
	if r.sched.State().ClipID == leftID {
		t.Error("expected active clip to advance to the right half")
	}
	if r.slot1.loaded != "" {
		t.Error("same-source transition must not touch the idle slot")
	}
}

func TestScrubRemembersResumeIntent(t *testing.T) {
	r := newRig()
	r.addSource("srcA", "video", "a.mp4", 10)
	r.tl.AddClips(NewClipList("srcA", 10))

	r.sched.Play()
	r.sched.BeginScrub()
	if got := r.sched.State().Kind; got != StateScrubbing {
		t.Fatalf("expected scrubbing, got %s", got)
	}
	if r.slot0.playing {
		t.Error("expected media paused while scrubbing")
	}
	r.sched.Scrub(6.5)
	r.sched.EndScrub()
	if got := r.sched.State().Kind; got != StatePlayingClip {
		t.Fatalf("expected playback resumed after scrub, got %s", got)
	}
	if math.Abs(r.sched.CurrentTime()-6.5) > 1e-9 {
		t.Errorf("expected cursor 6.5, got %.4f", r.sched.CurrentTime())
	}
}

func TestScrubFromPausedStaysPaused(t *testing.T) {
	r := newRig()
	r.addSource("srcA", "video", "a.mp4", 10)
	r.tl.AddClips(NewClipList("srcA", 10))

	r.sched.Play()
	r.sched.Pause()
	r.sched.BeginScrub()
	r.sched.Scrub(3.0)
	r.sched.EndScrub()

	if got := r.sched.State().Kind; got != StatePaused {
		t.Fatalf("expected paused after scrub from paused, got %s", got)
	}
	if r.sched.IsPlaying() {
		t.Error("playback must not resume")
	}
}

func TestPlayRejectionRetriesOnceThenPends(t *testing.T) {
	r := newRig()
	r.addSource("srcA", "video", "a.mp4", 10)
	r.tl.AddClips(NewClipList("srcA", 10))
	r.slot0.playErr = errRejected

	r.sched.Play()

	if got := r.sched.State().Kind; got != StatePaused {
		t.Fatalf("expected paused after rejected play, got %s", got)
	}
	if r.slot0.playCalls != 2 {
		t.Errorf("expected exactly one automatic retry, got %d play calls", r.slot0.playCalls)
	}
	if !r.sched.Snapshot().PendingPlay {
		t.Error("expected retryable pending-play flag")
	}

	// The affordance: clearing the rejection and retrying plays.
	r.slot0.playErr = nil
	r.sched.RetryPlay()
	if got := r.sched.State().Kind; got != StatePlayingClip {
		t.Fatalf("expected playing after retry, got %s", got)
	}
}

func TestQueuedIntentReplayedOnReadiness(t *testing.T) {
	r := newRig()
	r.addSource("srcA", "video", "a.mp4", 10)
	r.tl.AddClips(NewClipList("srcA", 10))
	r.slot0.ready = false

	r.sched.Seek(2.0)
	r.sched.Play()
	if r.slot0.playing {
		t.Fatal("play must not fire before readiness")
	}

	r.tick(20 * time.Millisecond)
	if r.slot0.playing {
		t.Fatal("still not ready; play must stay queued")
	}

	r.slot0.ready = true
	r.slot0.presented = true
	r.tick(20 * time.Millisecond)
	if !r.slot0.playing {
		t.Error("queued play not replayed once ready")
	}
	if math.Abs(r.slot0.seekedTo-2.0) > 1e-9 {
		t.Errorf("queued seek lost: %.4f", r.slot0.seekedTo)
	}
}

func TestDeleteActiveClipWithoutSuccessorGoesIdle(t *testing.T) {
	r := newRig()
	r.addSource("srcA", "video", "a.mp4", 10)
	ids := r.tl.AddClips(NewClipList("srcA", 10))

	r.sched.Play()
	r.tl.DeleteClip(ids[0])
	r.sched.OnClipDeleted(ids[0])

	if got := r.sched.State().Kind; got != StateIdle {
		t.Fatalf("expected idle after deleting only clip, got %s", got)
	}
}

func TestSeekCancelsInFlightSwap(t *testing.T) {
	r := newRig()
	r.addSource("srcA", "video", "a.mp4", 2)
	r.addSource("srcB", "video", "b.mp4", 5)
	r.tl.AddClips(append(NewClipList("srcA", 2), NewClipList("srcB", 5)...))

	r.sched.Play()
	r.slot0.curTime = 1.99
	r.slot1.presented = false
	r.tick(20 * time.Millisecond)
	if got := r.sched.State().Kind; got != StateAwaitingSwap {
		t.Fatalf("expected awaiting-swap, got %s", got)
	}

	// User seeks back into the first clip before the swap completes.
	r.sched.Seek(0.5)
	if got := r.buffers.SwapTarget(); got != "" {
		t.Errorf("expected pending swap cancelled, got target %q", got)
	}
	if got := r.sched.State().Kind; got != StatePlayingClip {
		t.Fatalf("expected playback at seek target, got %s", got)
	}
}

func TestActiveClipListenerFires(t *testing.T) {
	r := newRig()
	r.addSource("srcA", "video", "a.mp4", 10)
	ids := r.tl.AddClips(NewClipList("srcA", 10))

	var seen []string
	r.sched.SetActiveClipListener(func(id string) { seen = append(seen, id) })
	r.sched.Play()

	if len(seen) == 0 || seen[len(seen)-1] != ids[0] {
		t.Errorf("expected active-clip event for %s, got %v", ids[0], seen)
	}
}
