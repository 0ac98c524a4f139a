// Package playback owns the single authoritative global playback position.
// A state-machine scheduler maps that position onto the correct media
// presenter and local offset, advances through gaps on wall-clock time,
// and hands over between clips through a dual-buffer swap controller.
package playback

import "errors"

// ErrNotReady is returned by presenter operations issued before the
// loaded media reported readiness.
var ErrNotReady = errors.New("playback: presenter not ready")

// ErrPlayRejected is returned when the underlying player refuses a play
// command (e.g. an autoplay policy). The scheduler retries once and then
// parks in Paused with a retryable pending-play flag.
var ErrPlayRejected = errors.New("playback: play command rejected")

// Presenter is one interchangeable decoder/presenter handle. Two of them
// form the dual-buffer pair; exactly one is presented (visible, unmuted)
// at a time. Implementations wrap a concrete player (an mpv instance, a
// DOM media element, a test fake).
type Presenter interface {
	// Load attaches a stream and seeks it to seekToSec. Readiness is
	// reported asynchronously through Ready.
	Load(streamURL string, seekToSec float64) error
	// Seek moves the playhead in the media's native time base.
	Seek(sec float64) error
	// Play starts playback. May return ErrPlayRejected.
	Play() error
	// Pause stops playback without detaching.
	Pause() error
	// SetMuted toggles audio without affecting visibility.
	SetMuted(muted bool) error
	// Ready reports whether the loaded media can accept seek/play.
	Ready() bool
	// Presented reports whether at least one frame of the currently
	// loaded media has been rendered. Implementations without
	// frame-level signaling may return Ready.
	Presented() bool
	// Present makes this handle the visible, audible one.
	Present() error
	// Retire hides, mutes, and pauses this handle.
	Retire() error
	// CurrentTime returns the playhead in the media's native time base.
	CurrentTime() (float64, error)
}
