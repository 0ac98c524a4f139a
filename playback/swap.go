package playback

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// swapReadyTimeout bounds how long the controller waits for the
	// inactive slot to report readiness before starting it anyway.
	swapReadyTimeout = 600 * time.Millisecond
	// swapDeadline bounds the whole handover; past it the controller
	// degrades to a direct attach on the active slot.
	swapDeadline = 1200 * time.Millisecond
)

// SwapStatus reports the outcome of stepping the swap protocol.
type SwapStatus int

const (
	// SwapIdle means no handover is in flight.
	SwapIdle SwapStatus = iota
	// SwapInFlight means the target slot is still loading or waiting for
	// its first frame.
	SwapInFlight
	// SwapCompleted means the slots were flipped on this step.
	SwapCompleted
	// SwapDegraded means the deadline passed and the controller fell
	// back to a direct attach on the active slot.
	SwapDegraded
)

// pendingSwap tracks one in-flight handover. A fresh seek replaces it
// wholesale; the token distinguishes stale completions.
type pendingSwap struct {
	token        string
	targetClipID string
	streamURL    string
	seekToSec    float64
	startedAt    time.Time
	playing      bool
}

// Buffers is the dual-buffer swap controller. It owns two interchangeable
// presenter slots and performs the glitch-minimizing handover between
// clips backed by different sources of the same media kind: load the
// target muted into the idle slot, start it while still hidden, and flip
// visibility only once the new slot has rendered a frame.
type Buffers struct {
	slots   [2]Presenter
	sources [2]string
	active  int

	pending *pendingSwap
	clock   Clock
	log     *zap.Logger

	// posterUntilReady marks that the active slot is mid load/seek and a
	// captured still should be shown instead of a black flash.
	posterUntilReady bool
}

// NewBuffers wires the two presenter slots. Slot 0 starts active.
func NewBuffers(slot0, slot1 Presenter, clock Clock, log *zap.Logger) *Buffers {
	if log == nil {
		log = zap.NewNop()
	}
	return &Buffers{
		slots: [2]Presenter{slot0, slot1},
		clock: clock,
		log:   log,
	}
}

// Active returns the currently presented slot.
func (b *Buffers) Active() Presenter {
	return b.slots[b.active]
}

// ActiveSource returns the stream loaded in the active slot, if any.
func (b *Buffers) ActiveSource() string {
	return b.sources[b.active]
}

// PosterVisible reports whether the preview poster should cover the
// output: either the active slot is mid load/seek, or a swap is in
// flight and neither slot has a presentable frame yet.
func (b *Buffers) PosterVisible() bool {
	if b.posterUntilReady && !b.Active().Ready() {
		return true
	}
	return false
}

// SwapTarget returns the clip id of the in-flight swap, or "".
func (b *Buffers) SwapTarget() string {
	if b.pending == nil {
		return ""
	}
	return b.pending.targetClipID
}

// AttachDirect loads a stream straight into the active slot: the simple,
// non-swapped path used for first attach, cross-kind transitions, and
// degraded handovers. A brief frozen frame is accepted; the poster covers
// the load window.
func (b *Buffers) AttachDirect(streamURL string, seekToSec float64) error {
	b.CancelSwap()
	b.posterUntilReady = true
	if err := b.Active().Load(streamURL, seekToSec); err != nil {
		return err
	}
	b.sources[b.active] = streamURL
	return b.Active().Present()
}

// BeginSwap starts a handover to a different source on the idle slot.
// Any previous in-flight swap is cancelled in favor of the new target.
func (b *Buffers) BeginSwap(targetClipID, streamURL string, seekToSec float64) error {
	b.CancelSwap()
	idle := b.idle()
	if err := idle.Load(streamURL, seekToSec); err != nil {
		return err
	}
	if err := idle.SetMuted(true); err != nil {
		return err
	}
	b.sources[b.idleIndex()] = streamURL
	b.pending = &pendingSwap{
		token:        uuid.NewString(),
		targetClipID: targetClipID,
		streamURL:    streamURL,
		seekToSec:    seekToSec,
		startedAt:    b.clock.Now(),
	}
	b.log.Debug("swap started",
		zap.String("clip", targetClipID),
		zap.String("token", b.pending.token))
	return nil
}

// CancelSwap abandons any in-flight handover and retires the idle slot.
func (b *Buffers) CancelSwap() {
	if b.pending == nil {
		return
	}
	b.log.Debug("swap cancelled", zap.String("token", b.pending.token))
	b.pending = nil
	_ = b.idle().Retire()
}

// Step advances the swap protocol by one poll. The invariant the whole
// handover rests on: the new slot is playing before it becomes visible,
// never after.
func (b *Buffers) Step() SwapStatus {
	p := b.pending
	if p == nil {
		return SwapIdle
	}
	idle := b.idle()
	elapsed := b.clock.Now().Sub(p.startedAt)

	if !p.playing {
		if idle.Ready() || elapsed >= swapReadyTimeout {
			if err := idle.Play(); err != nil {
				if elapsed >= swapDeadline {
					return b.degrade(p)
				}
				return SwapInFlight
			}
			p.playing = true
		} else if elapsed >= swapDeadline {
			return b.degrade(p)
		}
		return SwapInFlight
	}

	// Playing but hidden: flip on the first rendered frame, or once the
	// deadline makes further waiting worse than a hard cut.
	if idle.Presented() || elapsed >= swapDeadline {
		old := b.Active()
		_ = idle.SetMuted(false)
		if err := idle.Present(); err != nil {
			return b.degrade(p)
		}
		_ = old.Retire()
		b.active = b.idleIndex()
		b.pending = nil
		b.posterUntilReady = false
		b.log.Debug("swap completed", zap.String("clip", p.targetClipID))
		return SwapCompleted
	}
	return SwapInFlight
}

// degrade abandons the dual-buffer path and attaches the target directly
// to the active slot, accepting a brief black/frozen frame.
func (b *Buffers) degrade(p *pendingSwap) SwapStatus {
	b.log.Warn("swap deadline passed, degrading to direct attach",
		zap.String("clip", p.targetClipID))
	b.pending = nil
	_ = b.idle().Retire()
	if err := b.AttachDirect(p.streamURL, p.seekToSec); err != nil {
		b.log.Warn("direct attach after degraded swap failed", zap.Error(err))
	}
	return SwapDegraded
}

func (b *Buffers) idleIndex() int {
	return 1 - b.active
}

func (b *Buffers) idle() Presenter {
	return b.slots[b.idleIndex()]
}
