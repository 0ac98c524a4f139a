// Package input translates pointer, drag, and range events into playback
// scheduler commands. Drag transients live in a short-lived interaction
// session owned here, never in rendering state; the scheduler sees the
// stream only through a frame-throttled preview and the final commit.
package input

import (
	"time"
)

// previewInterval is the minimum spacing between preview seeks issued
// mid-drag, the single-flight animation-frame throttle.
const previewInterval = 33 * time.Millisecond

// Transport is the command surface the adapter drives. The playback
// scheduler satisfies it.
type Transport interface {
	BeginScrub()
	Scrub(sec float64)
	EndScrub()
	PreviewSeek()
	Seek(sec float64)
	CurrentTime() float64
	Duration() float64
}

// Clock abstracts time for throttle tests.
type Clock interface {
	Now() time.Time
}

// Session is the value object for one in-flight scrub drag. It is created
// on drag-start, mutated on every pointer move, and discarded at commit.
type Session struct {
	StartedAt time.Time
	// OriginSec is the playback position when the drag began.
	OriginSec float64
	// TargetSec is the latest pointer target; only the newest one is
	// ever acted on.
	TargetSec float64
}

// Adapter owns the interaction session and the preview throttle.
type Adapter struct {
	transport Transport
	clock     Clock

	session     *Session
	previewDue  bool
	lastPreview time.Time
}

// NewAdapter wires an adapter over a transport.
func NewAdapter(transport Transport, clock Clock) *Adapter {
	return &Adapter{transport: transport, clock: clock}
}

// Dragging reports whether a scrub session is open.
func (a *Adapter) Dragging() bool {
	return a.session != nil
}

// Session returns the open interaction session, if any.
func (a *Adapter) Session() *Session {
	return a.session
}

// BeginDrag opens a scrub session at the current position.
func (a *Adapter) BeginDrag() {
	if a.session != nil {
		return
	}
	a.session = &Session{
		StartedAt: a.clock.Now(),
		OriginSec: a.transport.CurrentTime(),
		TargetSec: a.transport.CurrentTime(),
	}
	a.transport.BeginScrub()
}

// DragTo records a new pointer target. The position updates immediately;
// the media preview is deferred to the next throttle slot.
func (a *Adapter) DragTo(sec float64) {
	if a.session == nil {
		return
	}
	a.session.TargetSec = sec
	a.transport.Scrub(sec)
	a.previewDue = true
}

// EndDrag commits the session: the scheduler resumes (or stays paused)
// at the final target and the session is discarded.
func (a *Adapter) EndDrag() {
	if a.session == nil {
		return
	}
	a.transport.Scrub(a.session.TargetSec)
	a.transport.EndScrub()
	a.session = nil
	a.previewDue = false
}

// CancelDrag abandons the session and restores the origin position.
func (a *Adapter) CancelDrag() {
	if a.session == nil {
		return
	}
	a.transport.Scrub(a.session.OriginSec)
	a.transport.EndScrub()
	a.session = nil
	a.previewDue = false
}

// Nudge is the discrete, key-driven seek: step the position by deltaSec.
func (a *Adapter) Nudge(deltaSec float64) {
	if a.session != nil {
		return
	}
	a.transport.Seek(a.transport.CurrentTime() + deltaSec)
}

// SeekTo jumps straight to a position outside any drag.
func (a *Adapter) SeekTo(sec float64) {
	if a.session != nil {
		return
	}
	a.transport.Seek(sec)
}

// Poll runs one throttle frame: if a preview is due and the interval has
// passed, issue exactly one preview seek for the newest target. Older
// targets are dropped, never queued.
func (a *Adapter) Poll() {
	if !a.previewDue || a.session == nil {
		return
	}
	now := a.clock.Now()
	if now.Sub(a.lastPreview) < previewInterval {
		return
	}
	a.lastPreview = now
	a.previewDue = false
	a.transport.PreviewSeek()
}
