package playback

import (
	"time"

	"go.uber.org/zap"

	"github.com/user/caption-studio-cli/pkg/notify"
	"github.com/user/caption-studio-cli/timeline"
)

// readyFallbackTimeout bounds how long a queued seek/play intent waits
// for media readiness before the alternate seek-then-play attempt fires.
const readyFallbackTimeout = 500 * time.Millisecond

// StateKind enumerates the scheduler's states.
type StateKind string

const (
	StateIdle         StateKind = "idle"
	StatePlayingClip  StateKind = "playing-clip"
	StatePlayingGap   StateKind = "playing-gap"
	StatePaused       StateKind = "paused"
	StateScrubbing    StateKind = "scrubbing"
	StateAwaitingSwap StateKind = "awaiting-swap"
)

// State is the scheduler's tagged state. ClipID is the active clip for
// PlayingClip and the handover target for AwaitingSwap.
type State struct {
	Kind   StateKind
	ClipID string
}

// Snapshot is the read-only projection the UI renders from.
type Snapshot struct {
	CurrentTime   float64
	Duration      float64
	IsPlaying     bool
	State         StateKind
	ActiveClipID  string
	PendingPlay   bool
	PosterVisible bool
}

// SourceLookup resolves a media source reference. The timeline only holds
// ids; the surrounding session owns the sources.
type SourceLookup func(mediaSourceID string) (timeline.MediaSource, bool)

// pendingIntent queues a seek/play issued before the active presenter
// reported readiness. It is invalidated when the active clip changes.
type pendingIntent struct {
	clipID        string
	seekToSec     float64
	play          bool
	issuedAt      time.Time
	fallbackTried bool
}

// Scheduler drives the global playback position across clips and gaps.
// All methods must be called from the same goroutine; "concurrency" here
// is interleaved ticks and commands, exactly like the event loop it
// models.
type Scheduler struct {
	tl      *timeline.Timeline
	buffers *Buffers
	lookup  SourceLookup
	clock   Clock
	log     *zap.Logger
	sink    notify.Notifier

	state       State
	currentTime float64
	lastTick    time.Time
	haveTick    bool

	// Gap traversal bookkeeping: the boundary we are advancing toward.
	gapUntil   float64
	gapClipID  string
	intent     *pendingIntent
	activeKind timeline.Kind

	// pendingPlay is the retryable "tap to play" flag left behind after
	// repeated play rejections.
	pendingPlay bool
	playRetried bool

	resumeAfterScrub bool

	// fallbackDuration is used when there is no clip timeline and a
	// single media is attached directly.
	fallbackDuration float64

	onActiveClip func(clipID string)
}

// NewScheduler wires a scheduler over a timeline and a buffer pair.
func NewScheduler(tl *timeline.Timeline, buffers *Buffers, lookup SourceLookup, clock Clock, log *zap.Logger, sink notify.Notifier) *Scheduler {
	if log == nil {
		log = zap.NewNop()
	}
	if sink == nil {
		sink = notify.Nop()
	}
	return &Scheduler{
		tl:      tl,
		buffers: buffers,
		lookup:  lookup,
		clock:   clock,
		log:     log,
		sink:    sink,
		state:   State{Kind: StateIdle},
	}
}

// SetActiveClipListener registers the selection channel callback fired
// whenever the active clip changes.
func (s *Scheduler) SetActiveClipListener(fn func(clipID string)) {
	s.onActiveClip = fn
}

// SetFallbackDuration sets the duration reported when the timeline is
// empty but a single media is attached.
func (s *Scheduler) SetFallbackDuration(sec float64) {
	s.fallbackDuration = sec
}

// State returns the current tagged state.
func (s *Scheduler) State() State {
	return s.state
}

// CurrentTime returns the global playback position.
func (s *Scheduler) CurrentTime() float64 {
	return s.currentTime
}

// Duration returns the composed timeline duration, falling back to the
// single attached media's own duration when no clips exist.
func (s *Scheduler) Duration() float64 {
	if s.tl.Len() == 0 {
		return s.fallbackDuration
	}
	return s.tl.TotalDuration()
}

// IsPlaying reports whether the position is advancing.
func (s *Scheduler) IsPlaying() bool {
	switch s.state.Kind {
	case StatePlayingClip, StatePlayingGap, StateAwaitingSwap:
		return true
	}
	return false
}

// Snapshot returns the UI projection of the playback state.
func (s *Scheduler) Snapshot() Snapshot {
	return Snapshot{
		CurrentTime:   s.currentTime,
		Duration:      s.Duration(),
		IsPlaying:     s.IsPlaying(),
		State:         s.state.Kind,
		ActiveClipID:  s.state.ClipID,
		PendingPlay:   s.pendingPlay,
		PosterVisible: s.buffers.PosterVisible(),
	}
}

// Play starts playback from the current global position: inside a clip it
// attaches and plays that clip, inside a gap it starts the wall-clock
// ticker toward the next clip, and past the last clip it does nothing.
func (s *Scheduler) Play() {
	if s.state.Kind == StateScrubbing {
		return
	}
	s.pendingPlay = false
	s.playRetried = false
	if clip, ok := s.tl.ClipAt(s.currentTime); ok {
		s.enterClip(clip, s.currentTime, true)
		return
	}
	if next, ok := s.tl.NextClipAfter(s.currentTime); ok {
		s.enterGap(next)
		return
	}
	// Nothing at or after the cursor: stay put.
	s.transition(State{Kind: s.idleOrPaused()})
}

// Pause suspends playback, cancelling any in-flight handover.
func (s *Scheduler) Pause() {
	s.buffers.CancelSwap()
	_ = s.buffers.Active().Pause()
	if s.state.Kind != StateIdle {
		s.transition(State{Kind: StatePaused, ClipID: s.state.ClipID})
	}
}

// TogglePlay flips between playing and paused.
func (s *Scheduler) TogglePlay() {
	if s.IsPlaying() {
		s.Pause()
		return
	}
	s.Play()
}

// Seek moves the global position. A pending swap is cancelled in favor of
// the new target and queued intents are invalidated. If playback was
// running it resumes at the new position.
func (s *Scheduler) Seek(sec float64) {
	wasPlaying := s.IsPlaying()
	s.buffers.CancelSwap()
	s.intent = nil
	s.currentTime = clampTime(sec, s.Duration())
	if wasPlaying {
		s.Play()
		return
	}
	// Paused: keep the active presenter in sync when the target falls
	// inside the clip it has loaded.
	if clip, ok := s.tl.ClipAt(s.currentTime); ok {
		if s.state.ClipID == clip.ID && s.buffers.Active().Ready() {
			_ = s.buffers.Active().Seek(clip.MediaTime(s.currentTime))
		}
	}
}

// BeginScrub enters the user-driven scrubbing state, remembering whether
// playback should resume when the drag ends.
func (s *Scheduler) BeginScrub() {
	if s.state.Kind == StateScrubbing {
		return
	}
	s.resumeAfterScrub = s.IsPlaying()
	s.buffers.CancelSwap()
	s.intent = nil
	_ = s.buffers.Active().Pause()
	s.transition(State{Kind: StateScrubbing, ClipID: s.state.ClipID})
}

// Scrub updates the position mid-drag. Only valid while scrubbing.
func (s *Scheduler) Scrub(sec float64) {
	if s.state.Kind != StateScrubbing {
		return
	}
	s.currentTime = clampTime(sec, s.Duration())
}

// PreviewSeek seeks the active presenter to the current position while
// scrubbing, without resuming playback. Called at a throttled rate by the
// input adapter, never per pointer event.
func (s *Scheduler) PreviewSeek() {
	if s.state.Kind != StateScrubbing {
		return
	}
	clip, ok := s.tl.ClipAt(s.currentTime)
	if !ok {
		return
	}
	src, ok := s.lookup(clip.MediaSourceID)
	if !ok || src.StreamURL == nil {
		return
	}
	if s.buffers.ActiveSource() != *src.StreamURL {
		if err := s.buffers.AttachDirect(*src.StreamURL, clip.MediaTime(s.currentTime)); err != nil {
			return
		}
		s.activeKind = src.Kind
		s.setActiveClip(clip.ID)
		return
	}
	if s.buffers.Active().Ready() {
		_ = s.buffers.Active().Seek(clip.MediaTime(s.currentTime))
	}
}

// EndScrub leaves the scrubbing state, resuming playback only if it was
// running when the drag began.
func (s *Scheduler) EndScrub() {
	if s.state.Kind != StateScrubbing {
		return
	}
	if s.resumeAfterScrub {
		s.transition(State{Kind: StatePaused, ClipID: s.state.ClipID})
		s.Play()
		return
	}
	s.transition(State{Kind: s.idleOrPaused(), ClipID: s.state.ClipID})
}

// RetryPlay retries a play that was rejected by the platform's playback
// policy. It is the "tap to play" affordance.
func (s *Scheduler) RetryPlay() {
	if !s.pendingPlay {
		return
	}
	s.pendingPlay = false
	s.playRetried = false
	s.Play()
}

// OnClipDeleted reselects after the active clip disappeared: the clip now
// covering the cursor, else the next one, else Idle.
func (s *Scheduler) OnClipDeleted(clipID string) {
	if s.state.ClipID != clipID {
		s.OnTimelineChanged()
		return
	}
	wasPlaying := s.IsPlaying()
	s.buffers.CancelSwap()
	s.intent = nil
	_ = s.buffers.Active().Pause()
	if s.tl.Len() == 0 {
		s.currentTime = 0
		s.transition(State{Kind: StateIdle})
		s.setActiveClip("")
		return
	}
	if wasPlaying {
		s.Play()
		return
	}
	s.transition(State{Kind: StatePaused})
	if clip, ok := s.tl.ClipAt(s.currentTime); ok {
		s.setActiveClip(clip.ID)
	}
}

// OnTimelineChanged re-clamps the cursor after any timeline mutation and
// drops to Idle when the clip list became empty.
func (s *Scheduler) OnTimelineChanged() {
	if s.tl.Len() == 0 && s.fallbackDuration == 0 {
		s.currentTime = 0
		s.buffers.CancelSwap()
		s.intent = nil
		_ = s.buffers.Active().Retire()
		s.transition(State{Kind: StateIdle})
		return
	}
	s.currentTime = clampTime(s.currentTime, s.Duration())
}

// Tick advances the scheduler by one poll. The surrounding loop calls it
// at a high frequency; boundary checks use an epsilon so a missed frame
// at a clip edge cannot wedge playback.
func (s *Scheduler) Tick() {
	now := s.clock.Now()
	var dt float64
	if s.haveTick {
		dt = now.Sub(s.lastTick).Seconds()
	}
	s.lastTick = now
	s.haveTick = true

	switch s.state.Kind {
	case StatePlayingGap:
		s.currentTime += dt
		if s.currentTime >= s.gapUntil-timeline.BoundaryEpsilon {
			s.leaveGap()
		}

	case StatePlayingClip:
		clip, ok := s.tl.Get(s.state.ClipID)
		if !ok {
			s.OnClipDeleted(s.state.ClipID)
			return
		}
		if s.intent != nil {
			s.flushIntent()
			return
		}
		if mt, err := s.buffers.Active().CurrentTime(); err == nil {
			s.currentTime = clip.StartSec + (mt - clip.TrimStartSec)
		} else {
			// Media not reporting; keep advancing on wall clock so the
			// boundary poll still fires.
			s.currentTime += dt
		}
		if s.currentTime >= clip.EndSec()-timeline.BoundaryEpsilon {
			s.advanceFrom(clip)
		}

	case StateAwaitingSwap:
		s.currentTime += dt
		switch s.buffers.Step() {
		case SwapCompleted:
			s.transition(State{Kind: StatePlayingClip, ClipID: s.state.ClipID})
		case SwapDegraded:
			// Direct attach leaves the slot paused; play it now.
			s.tryPlay(s.state.ClipID)
			s.transition(State{Kind: StatePlayingClip, ClipID: s.state.ClipID})
		}

	case StatePaused:
		if s.intent != nil && !s.intent.play {
			s.flushIntent()
		}
	}
}

// enterClip attaches and optionally plays the clip covering atGlobalSec.
func (s *Scheduler) enterClip(clip timeline.Clip, atGlobalSec float64, play bool) {
	src, ok := s.lookup(clip.MediaSourceID)
	if !ok || src.StreamURL == nil || src.ResolutionState == timeline.ResolutionFailed {
		s.sink.Notify("media for clip is not playable yet", notify.Warn)
		s.log.Warn("clip source unresolved", zap.String("clip", clip.ID))
		s.transition(State{Kind: StatePaused, ClipID: clip.ID})
		s.setActiveClip(clip.ID)
		return
	}
	stream := *src.StreamURL
	local := clip.MediaTime(atGlobalSec)

	if s.buffers.ActiveSource() != stream {
		if err := s.buffers.AttachDirect(stream, local); err != nil {
			s.sink.Notify("failed to load media: "+err.Error(), notify.Error)
			s.transition(State{Kind: StatePaused, ClipID: clip.ID})
			s.setActiveClip(clip.ID)
			return
		}
	}
	s.activeKind = src.Kind
	s.setActiveClip(clip.ID)

	if !s.buffers.Active().Ready() {
		// Queue the seek/play and replay it once the media is ready.
		s.intent = &pendingIntent{
			clipID:    clip.ID,
			seekToSec: local,
			play:      play,
			issuedAt:  s.clock.Now(),
		}
		kind := StatePlayingClip
		if !play {
			kind = StatePaused
		}
		s.transition(State{Kind: kind, ClipID: clip.ID})
		return
	}

	_ = s.buffers.Active().Seek(local)
	if play {
		s.tryPlay(clip.ID)
		return
	}
	s.transition(State{Kind: StatePaused, ClipID: clip.ID})
}

// enterGap starts wall-clock advancement toward the next clip.
func (s *Scheduler) enterGap(next timeline.Clip) {
	_ = s.buffers.Active().Pause()
	s.gapUntil = next.StartSec
	s.gapClipID = next.ID
	s.transition(State{Kind: StatePlayingGap})
}

// leaveGap fires when the advancing position reaches the next clip.
func (s *Scheduler) leaveGap() {
	clip, ok := s.tl.Get(s.gapClipID)
	if !ok || clip.StartSec > s.gapUntil+timeline.BoundaryEpsilon {
		// The target moved or vanished mid-gap; re-resolve.
		next, ok := s.tl.NextClipAfter(s.currentTime)
		if !ok {
			s.finish()
			return
		}
		clip = next
		s.gapUntil = next.StartSec
		if s.currentTime < s.gapUntil-timeline.BoundaryEpsilon {
			s.gapClipID = next.ID
			return
		}
	}
	s.currentTime = clip.StartSec
	s.selectSuccessor(clip)
}

// advanceFrom fires when the active clip reached its trim end: continue
// into an adjacent clip, fall into a gap, or finish the timeline.
func (s *Scheduler) advanceFrom(clip timeline.Clip) {
	end := clip.EndSec()
	next, ok := s.tl.NextClipAfter(end)
	if !ok {
		s.currentTime = clampTime(end, s.Duration())
		s.finish()
		return
	}
	if next.StartSec <= end+timeline.BoundaryEpsilon {
		s.currentTime = next.StartSec
		s.selectSuccessor(next)
		return
	}
	s.currentTime = end
	s.enterGap(next)
}

// selectSuccessor chooses the transition into the next clip: continue the
// same presenter for the same source, dual-buffer swap for a different
// source of the same kind, direct attach across kinds.
func (s *Scheduler) selectSuccessor(next timeline.Clip) {
	src, ok := s.lookup(next.MediaSourceID)
	if !ok || src.StreamURL == nil {
		s.sink.Notify("media for next clip is not playable yet", notify.Warn)
		s.transition(State{Kind: StatePaused, ClipID: next.ID})
		s.setActiveClip(next.ID)
		return
	}
	stream := *src.StreamURL

	switch {
	case s.buffers.ActiveSource() == stream:
		// Same media continuing, possibly past a trim boundary.
		if s.buffers.Active().Ready() {
			_ = s.buffers.Active().Seek(next.TrimStartSec)
		}
		s.activeKind = src.Kind
		s.setActiveClip(next.ID)
		s.tryPlay(next.ID)

	case s.activeKind == src.Kind && s.buffers.ActiveSource() != "":
		// Different source, same kind: glitch-minimizing handover.
		_ = s.buffers.Active().Pause()
		if err := s.buffers.BeginSwap(next.ID, stream, next.TrimStartSec); err != nil {
			s.log.Warn("swap start failed, attaching directly", zap.Error(err))
			s.attachAndPlay(next, stream, src.Kind)
			return
		}
		s.setActiveClip(next.ID)
		s.transition(State{Kind: StateAwaitingSwap, ClipID: next.ID})

	default:
		// Cross-kind (video<->audio) or first attach: direct.
		s.attachAndPlay(next, stream, src.Kind)
	}
}

// attachAndPlay is the direct, non-swapped attach path.
func (s *Scheduler) attachAndPlay(next timeline.Clip, stream string, kind timeline.Kind) {
	if err := s.buffers.AttachDirect(stream, next.TrimStartSec); err != nil {
		s.sink.Notify("failed to load media: "+err.Error(), notify.Error)
		s.transition(State{Kind: StatePaused, ClipID: next.ID})
		s.setActiveClip(next.ID)
		return
	}
	s.activeKind = kind
	s.setActiveClip(next.ID)
	if !s.buffers.Active().Ready() {
		s.intent = &pendingIntent{
			clipID:    next.ID,
			seekToSec: next.TrimStartSec,
			play:      true,
			issuedAt:  s.clock.Now(),
		}
		s.transition(State{Kind: StatePlayingClip, ClipID: next.ID})
		return
	}
	s.tryPlay(next.ID)
}

// finish stops at the end of the timeline: no successor exists.
func (s *Scheduler) finish() {
	_ = s.buffers.Active().Pause()
	s.transition(State{Kind: StateIdle})
}

// tryPlay issues the play command, retrying a rejection once before
// parking in Paused with the retryable pending-play flag.
func (s *Scheduler) tryPlay(clipID string) {
	err := s.buffers.Active().Play()
	if err == nil {
		s.playRetried = false
		s.transition(State{Kind: StatePlayingClip, ClipID: clipID})
		return
	}
	if !s.playRetried {
		s.playRetried = true
		if retryErr := s.buffers.Active().Play(); retryErr == nil {
			s.transition(State{Kind: StatePlayingClip, ClipID: clipID})
			return
		}
	}
	s.log.Warn("play rejected", zap.Error(err), zap.String("clip", clipID))
	s.pendingPlay = true
	s.transition(State{Kind: StatePaused, ClipID: clipID})
}

// flushIntent replays a queued seek/play once the media is ready, or
// falls back to issuing it anyway after the ready timeout.
func (s *Scheduler) flushIntent() {
	in := s.intent
	if in == nil {
		return
	}
	if in.clipID != s.state.ClipID {
		// Active clip changed before the intent executed.
		s.intent = nil
		return
	}
	active := s.buffers.Active()
	if active.Ready() {
		s.intent = nil
		_ = active.Seek(in.seekToSec)
		if in.play {
			s.tryPlay(in.clipID)
		}
		return
	}
	if !in.fallbackTried && s.clock.Now().Sub(in.issuedAt) >= readyFallbackTimeout {
		// Alternate attempt: some players accept a seek-then-play even
		// before signalling readiness.
		in.fallbackTried = true
		_ = active.Seek(in.seekToSec)
		if in.play {
			if err := active.Play(); err == nil {
				s.intent = nil
			}
		}
	}
}

// transition is the single place state changes happen.
func (s *Scheduler) transition(next State) {
	if next == s.state {
		return
	}
	s.log.Debug("playback transition",
		zap.String("from", string(s.state.Kind)),
		zap.String("to", string(next.Kind)),
		zap.String("clip", next.ClipID),
		zap.Float64("t", s.currentTime))
	s.state = next
}

// setActiveClip emits the selection-changed event.
func (s *Scheduler) setActiveClip(clipID string) {
	if s.onActiveClip != nil {
		s.onActiveClip(clipID)
	}
}

// idleOrPaused picks the resting state for the current timeline shape.
func (s *Scheduler) idleOrPaused() StateKind {
	if s.tl.Len() == 0 {
		return StateIdle
	}
	return StatePaused
}

// clampTime bounds a position into [0, duration].
func clampTime(sec, duration float64) float64 {
	if sec < 0 {
		return 0
	}
	if sec > duration {
		return duration
	}
	return sec
}
