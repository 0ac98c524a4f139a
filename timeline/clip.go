// Package timeline models an ordered, trimmable sequence of media clips
// composed onto a single global timeline. Clips are kept sorted by start
// position and non-overlapping at all times; every mutation re-normalizes
// the set, clamping rather than erroring when an edit would produce an
// invalid range.
package timeline

const (
	// MinClipDuration is the floor for a clip's played duration in seconds.
	// Edits that would shrink a clip below this are clamped.
	MinClipDuration = 0.5

	// BoundaryEpsilon is the tolerance used for clip-edge comparisons during
	// playback. Tunable: it masks floating-point and timer jitter, it is not
	// an exact contract.
	BoundaryEpsilon = 0.02

	// gapEpsilon is the minimum uncovered interval that counts as a gap when
	// scanning the clip set into ranges.
	gapEpsilon = 0.01
)

// Kind identifies the media type of a source.
type Kind string

const (
	KindAudio Kind = "audio"
	KindVideo Kind = "video"
)

// ResolutionState tracks whether a media source has been resolved to a
// playable handle yet.
type ResolutionState string

const (
	ResolutionReady     ResolutionState = "ready"
	ResolutionResolving ResolutionState = "resolving"
	ResolutionFailed    ResolutionState = "failed"
)

// MediaSource is a reference to an externally owned media asset. The
// timeline holds only the reference; resolution and decoding live outside.
type MediaSource struct {
	ID string
	// Kind is audio or video.
	Kind Kind
	// DurationSec is nil until the source has been probed.
	DurationSec *float64
	// ResolutionState is ready, resolving, or failed.
	ResolutionState ResolutionState
	// StreamURL is nil until resolution produced a playable handle.
	StreamURL *string
}

// Clip is a placement of a media source on the global timeline. The trim
// range selects the sub-interval of the source that is actually played.
type Clip struct {
	ID            string
	MediaSourceID string
	// StartSec is the clip's position on the global timeline.
	StartSec float64
	// BaseDurationSec is the full extent of the source. It may be a guess
	// until the source's real duration becomes known.
	BaseDurationSec float64
	// TrimStartSec and TrimEndSec bound the played sub-range of the source.
	TrimStartSec float64
	TrimEndSec   float64

	// seq preserves insertion order for sort tie-breaking.
	seq int
}

// DurationSec returns the played duration of the clip.
func (c Clip) DurationSec() float64 {
	return c.TrimEndSec - c.TrimStartSec
}

// EndSec returns the clip's end position on the global timeline.
func (c Clip) EndSec() float64 {
	return c.StartSec + c.DurationSec()
}

// MediaTime maps a global timeline position inside this clip to the
// source's native time base.
func (c Clip) MediaTime(globalSec float64) float64 {
	return c.TrimStartSec + (globalSec - c.StartSec)
}

// untrimmed reports whether the clip still plays its full base extent.
func (c Clip) untrimmed() bool {
	return c.TrimStartSec < gapEpsilon && c.BaseDurationSec-c.DurationSec() < gapEpsilon
}

// NewClip describes a clip to append to the timeline.
type NewClip struct {
	MediaSourceID string
	// BaseDurationSec may be a guessed duration; it is corrected later via
	// SetSourceDuration once the source has been probed.
	BaseDurationSec float64
}
