package playback

import (
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
)

func newBufferPair() (*Buffers, *fakePresenter, *fakePresenter, *fakeClock) {
	clock := newFakeClock()
	slot0 := &fakePresenter{name: "slot0", ready: true, presented: true}
	slot1 := &fakePresenter{name: "slot1"}
	b := NewBuffers(slot0, slot1, clock, zap.NewNop())
	return b, slot0, slot1, clock
}

func TestSwapPlaysHiddenBeforePresenting(t *testing.T) {
	b, slot0, slot1, _ := newBufferPair()
	_ = b.AttachDirect("a.mp4", 0)

	if err := b.BeginSwap("clip-b", "b.mp4", 1.5); err != nil {
		t.Fatal(err)
	}
	if slot1.loaded != "b.mp4" || slot1.seekedTo != 1.5 {
		t.Fatalf("target not preloaded at trim start: %q @ %.2f", slot1.loaded, slot1.seekedTo)
	}
	if !slot1.muted {
		t.Error("preloading slot must be muted")
	}

	// Not ready yet: nothing visible happens.
	if got := b.Step(); got != SwapInFlight {
		t.Fatalf("expected in-flight, got %v", got)
	}
	if slot1.playing || slot1.visible {
		t.Error("hidden slot must stay idle until ready")
	}

	// Ready: playback starts while the old slot is still presented.
	slot1.ready = true
	if got := b.Step(); got != SwapInFlight {
		t.Fatalf("expected in-flight while awaiting first frame, got %v", got)
	}
	if !slot1.playing {
		t.Error("target slot should be playing")
	}
	if slot1.visible {
		t.Error("target slot must not be visible before its first frame")
	}

	// First rendered frame: flip visibility and audio, retire the old slot.
	slot1.presented = true
	if got := b.Step(); got != SwapCompleted {
		t.Fatalf("expected completed, got %v", got)
	}
	if !slot1.visible || slot1.muted {
		t.Error("new slot should be visible and unmuted after flip")
	}
	if slot0.visible || slot0.playing {
		t.Error("old slot should be retired after flip")
	}
	if b.Active() != slot1 {
		t.Error("active slot should have flipped")
	}

	// The ordering invariant: play strictly precedes present on the new slot.
	playIdx, presentIdx := -1, -1
	for i, op := range slot1.calls {
		if op == "play" && playIdx < 0 {
			playIdx = i
		}
		if op == "present" && presentIdx < 0 {
			presentIdx = i
		}
	}
	if playIdx < 0 || presentIdx < 0 || playIdx > presentIdx {
		t.Errorf("expected play before present, got call order %v", slot1.calls)
	}
}

func TestSwapDegradesToDirectAttachOnDeadline(t *testing.T) {
	b, slot0, slot1, clock := newBufferPair()
	_ = b.AttachDirect("a.mp4", 0)

	slot1.playErr = errors.New("decoder stuck")
	if err := b.BeginSwap("clip-b", "b.mp4", 0); err != nil {
		t.Fatal(err)
	}

	clock.Advance(swapDeadline + 50*time.Millisecond)
	if got := b.Step(); got != SwapDegraded {
		t.Fatalf("expected degraded swap, got %v", got)
	}
	// Degraded path: the target is attached straight to the active slot.
	if b.Active() != slot0 {
		t.Error("active slot must not flip on degrade")
	}
	if slot0.loaded != "b.mp4" {
		t.Errorf("expected direct attach of b.mp4, got %q", slot0.loaded)
	}
	if b.SwapTarget() != "" {
		t.Error("pending swap should be cleared")
	}
}

func TestFreshSwapCancelsPrevious(t *testing.T) {
	b, _, slot1, _ := newBufferPair()
	_ = b.AttachDirect("a.mp4", 0)

	_ = b.BeginSwap("clip-b", "b.mp4", 0)
	_ = b.BeginSwap("clip-c", "c.mp4", 2)

	if got := b.SwapTarget(); got != "clip-c" {
		t.Fatalf("expected newest target to win, got %q", got)
	}
	if slot1.loaded != "c.mp4" {
		t.Errorf("idle slot should hold the newest source, got %q", slot1.loaded)
	}
}

func TestPosterCoversActiveLoad(t *testing.T) {
	b, slot0, _, _ := newBufferPair()
	slot0.ready = false

	_ = b.AttachDirect("a.mp4", 3)
	if !b.PosterVisible() {
		t.Error("poster should cover the load window")
	}
	slot0.ready = true
	if b.PosterVisible() {
		t.Error("poster should clear once the active slot is ready")
	}
}
