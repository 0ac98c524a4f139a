package media

import (
	"github.com/user/caption-studio-cli/playback"
)

// Presenter adapts one mpv instance to the playback.Presenter interface.
// Two of these, on separate IPC sockets, form the dual-buffer pair.
type Presenter struct {
	client *Client
	loaded string
}

// compile-time interface check
var _ playback.Presenter = (*Presenter)(nil)

// NewPresenter wraps a connected client as a presenter slot.
func NewPresenter(client *Client) *Presenter {
	return &Presenter{client: client}
}

// Load replaces the slot's media, paused at seekToSec.
func (p *Presenter) Load(streamURL string, seekToSec float64) error {
	if err := p.client.LoadFile(streamURL, seekToSec); err != nil {
		return err
	}
	p.loaded = streamURL
	return nil
}

// Seek moves the playhead in the media's native time base.
func (p *Presenter) Seek(sec float64) error {
	return p.client.SeekTo(sec)
}

// Play unpauses the slot.
func (p *Presenter) Play() error {
	if err := p.client.SetProperty("pause", false); err != nil {
		return err
	}
	// mpv reports pause=true when the platform refused to start; map it
	// to the retryable rejection the scheduler understands.
	if paused, err := p.client.GetBool("pause"); err == nil && paused {
		return playback.ErrPlayRejected
	}
	return nil
}

// Pause stops playback without detaching the media.
func (p *Presenter) Pause() error {
	return p.client.SetProperty("pause", true)
}

// SetMuted toggles audio.
func (p *Presenter) SetMuted(muted bool) error {
	return p.client.SetProperty("mute", muted)
}

// Ready reports whether the loaded media accepts seek/play: mpv exposes
// a positive duration once the file's metadata has loaded.
func (p *Presenter) Ready() bool {
	if p.loaded == "" {
		return false
	}
	dur, err := p.client.GetDuration()
	return err == nil && dur > 0
}

// Presented reports whether the video output has configured, i.e. at
// least one frame of the loaded media has been rendered. Audio-only media
// has no frame signal; readiness stands in.
func (p *Presenter) Presented() bool {
	if configured, err := p.client.GetBool("vo-configured"); err == nil {
		return configured
	}
	return p.Ready()
}

// Present raises the slot's window and unmutes it.
func (p *Presenter) Present() error {
	if err := p.client.SetProperty("mute", false); err != nil {
		return err
	}
	return p.client.SetProperty("ontop", true)
}

// Retire hides the slot: muted, paused, window lowered.
func (p *Presenter) Retire() error {
	_ = p.client.SetProperty("ontop", false)
	_ = p.client.SetProperty("mute", true)
	return p.client.SetProperty("pause", true)
}

// CurrentTime returns the playhead in the media's native time base.
func (p *Presenter) CurrentTime() (float64, error) {
	return p.client.GetTimePos()
}
