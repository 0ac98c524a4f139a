package playback

import (
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/user/caption-studio-cli/timeline"
)

// fakeClock is a manually advanced Clock.
type fakeClock struct {
	t time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Unix(1000, 0)}
}

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

// fakePresenter records the command sequence a slot receives.
type fakePresenter struct {
	name      string
	loaded    string
	seekedTo  float64
	curTime   float64
	ready     bool
	presented bool
	playing   bool
	muted     bool
	visible   bool
	playErr   error
	playCalls int
	calls     []string
}

func (f *fakePresenter) record(op string) {
	f.calls = append(f.calls, op)
}

func (f *fakePresenter) Load(streamURL string, seekToSec float64) error {
	f.record("load")
	f.loaded = streamURL
	f.seekedTo = seekToSec
	f.curTime = seekToSec
	f.playing = false
	f.presented = false
	return nil
}

func (f *fakePresenter) Seek(sec float64) error {
	f.record("seek")
	f.seekedTo = sec
	f.curTime = sec
	return nil
}

func (f *fakePresenter) Play() error {
	f.record("play")
	f.playCalls++
	if f.playErr != nil {
		return f.playErr
	}
	f.playing = true
	return nil
}

func (f *fakePresenter) Pause() error {
	f.record("pause")
	f.playing = false
	return nil
}

func (f *fakePresenter) SetMuted(m bool) error {
	f.record("mute")
	f.muted = m
	return nil
}

func (f *fakePresenter) Ready() bool     { return f.ready }
func (f *fakePresenter) Presented() bool { return f.presented }

func (f *fakePresenter) Present() error {
	f.record("present")
	f.visible = true
	return nil
}

func (f *fakePresenter) Retire() error {
	f.record("retire")
	f.visible = false
	f.muted = true
	f.playing = false
	return nil
}

func (f *fakePresenter) CurrentTime() (float64, error) {
	if !f.ready {
		return 0, ErrNotReady
	}
	return f.curTime, nil
}

// testRig bundles a scheduler over two fake slots and a fake clock.
type testRig struct {
	tl      *timeline.Timeline
	clock   *fakeClock
	slot0   *fakePresenter
	slot1   *fakePresenter
	buffers *Buffers
	sched   *Scheduler
	sources map[string]timeline.MediaSource
}

func newRig() *testRig {
	r := &testRig{
		tl:      timeline.New(),
		clock:   newFakeClock(),
		slot0:   &fakePresenter{name: "slot0", ready: true, presented: true},
		slot1:   &fakePresenter{name: "slot1", ready: true, presented: true},
		sources: map[string]timeline.MediaSource{},
	}
	r.buffers = NewBuffers(r.slot0, r.slot1, r.clock, zap.NewNop())
	r.sched = NewScheduler(r.tl, r.buffers, func(id string) (timeline.MediaSource, bool) {
		src, ok := r.sources[id]
		return src, ok
	}, r.clock, zap.NewNop(), nil)
	return r
}

func (r *testRig) addSource(id string, kind timeline.Kind, url string, durationSec float64) {
	r.sources[id] = timeline.MediaSource{
		ID:              id,
		Kind:            kind,
		DurationSec:     &durationSec,
		ResolutionState: timeline.ResolutionReady,
		StreamURL:       &url,
	}
}

// tick advances the fake clock and runs one scheduler poll.
func (r *testRig) tick(d time.Duration) {
	r.clock.Advance(d)
	r.sched.Tick()
}

var errRejected = errors.New("autoplay blocked")

// NewClipList is shorthand for a single-item AddClips argument.
func NewClipList(sourceID string, baseDurationSec float64) []timeline.NewClip {
	return []timeline.NewClip{{MediaSourceID: sourceID, BaseDurationSec: baseDurationSec}}
}
