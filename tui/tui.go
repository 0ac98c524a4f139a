// Package tui is the terminal editing surface: it owns the Bubbletea event
// loop, drives the playback scheduler and scrub adapter on a fixed tick, and
// renders the timeline, caption list, and transport state.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"go.uber.org/zap"

	"github.com/user/caption-studio-cli/caption"
	"github.com/user/caption-studio-cli/input"
	"github.com/user/caption-studio-cli/pkg/geometry"
	"github.com/user/caption-studio-cli/pkg/notify"
	"github.com/user/caption-studio-cli/pkg/timeutil"
	"github.com/user/caption-studio-cli/playback"
	"github.com/user/caption-studio-cli/store"
	"github.com/user/caption-studio-cli/timeline"
	"github.com/user/caption-studio-cli/tui/components"
	"github.com/user/caption-studio-cli/tui/forms"
	"github.com/user/caption-studio-cli/tui/layout"
)

const (
	// tickInterval drives the scheduler and scrub adapter. The adapter's
	// own frame throttle gates how often previews reach the presenters.
	tickInterval = 50 * time.Millisecond
	// defaultStepSize is the default nudge step in seconds.
	defaultStepSize = 1.0
	// resultDisplayDuration is how long command results stay visible.
	resultDisplayDuration = 3 * time.Second
	// positionSaveTicks is how many ticks pass between playhead saves.
	positionSaveTicks = 40
	// zoomStep is the slider increment for [ and ].
	zoomStep = 0.05
	// defaultCaptionLength is the length of a caption added at the playhead.
	defaultCaptionLength = 2.0
)

// stepSizes are the nudge steps cycled with < and >.
var stepSizes = []float64{0.1, 0.5, 1, 2, 5, 10, 30}

// tickMsg is sent on every tick interval to advance the engine.
type tickMsg time.Time

// clearResultMsg clears the command result line.
type clearResultMsg struct{}

// notice is one buffered engine notification.
type notice struct {
	message  string
	severity notify.Severity
}

// NoticeSink adapts the engine's notification channel to the command line.
// Notify never blocks; overflow is dropped.
type NoticeSink struct {
	ch chan notice
}

// NewNoticeSink returns a sink with a small buffer drained on each tick.
func NewNoticeSink() *NoticeSink {
	return &NoticeSink{ch: make(chan notice, 32)}
}

// Notify implements notify.Notifier.
func (n *NoticeSink) Notify(message string, severity notify.Severity) {
	select {
	case n.ch <- notice{message: message, severity: severity}:
	default:
	}
}

// App bundles the wired engine the TUI drives. Store may be nil when the
// database could not be opened; persistence then degrades to notifications.
type App struct {
	Log       *zap.Logger
	Store     *store.Store
	Session   *store.Session
	Timeline  *timeline.Timeline
	Scheduler *playback.Scheduler
	Buffers   *playback.Buffers
	Track     *caption.Track
	Outbox    *caption.Outbox
	Notices   *NoticeSink
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Model is the Bubbletea model for the editor.
type Model struct {
	log     *zap.Logger
	store   *store.Store
	session *store.Session

	tl      *timeline.Timeline
	sched   *playback.Scheduler
	buffers *playback.Buffers
	adapter *input.Adapter
	track   *caption.Track
	outbox  *caption.Outbox
	notices *NoticeSink

	viewport geometry.Viewport
	mode     Mode
	stepSize float64
	muted    bool

	selectedClip int
	captionList  components.CaptionListState
	commandInput components.CommandInputState

	form       *huh.Form
	formResult forms.CaptionFormResult
	editingSeg string

	showHelp   bool
	ticksSince int

	width, height int
	quitting      bool
}

// NewModel wires a model around an assembled engine.
func NewModel(app App) *Model {
	m := &Model{
		log:      app.Log,
		store:    app.Store,
		session:  app.Session,
		tl:       app.Timeline,
		sched:    app.Scheduler,
		buffers:  app.Buffers,
		track:    app.Track,
		outbox:   app.Outbox,
		notices:  app.Notices,
		stepSize: defaultStepSize,
		viewport: geometry.Viewport{Zoom: 0.3},
	}
	m.adapter = input.NewAdapter(app.Scheduler, systemClock{})
	// Clip selection follows playback; p/n still override between changes.
	app.Scheduler.SetActiveClipListener(func(clipID string) {
		for i, c := range m.tl.Clips() {
			if c.ID == clipID {
				m.selectedClip = i
				return
			}
		}
	})
	if app.Session != nil {
		m.viewport.Zoom = clampZoom(app.Session.Zoom)
		m.viewport.ScrollSec = app.Session.ScrollSec
	}
	return m
}

// Run starts the Bubbletea program and blocks until the editor exits.
func Run(app App) error {
	p := tea.NewProgram(NewModel(app), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// Init starts the engine tick.
func (m *Model) Init() tea.Cmd {
	return tickCmd()
}

func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update handles messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.WidthPx = float64(msg.Width - 4)
		return m, nil

	case tickMsg:
		m.sched.Tick()
		m.adapter.Poll()
		m.drainNotices()
		m.followPlayhead()
		m.savePositionPeriodically()
		return m, tickCmd()

	case clearResultMsg:
		m.commandInput.ClearResult()
		return m, nil

	case tea.KeyMsg:
		if m.showHelp {
			m.showHelp = false
			return m, nil
		}
		switch m.mode {
		case ModeEdit:
			return m.updateForm(msg)
		case ModeCommand:
			return m.handleCommandInput(msg)
		case ModeScrub:
			return m.handleScrubInput(msg)
		default:
			return m.handleNormalInput(msg)
		}
	}

	// Form field messages (cursor blink etc) arrive outside tea.KeyMsg too.
	if m.mode == ModeEdit {
		return m.updateForm(msg)
	}

	return m, nil
}

// handleNormalInput handles key events in normal mode.
func (m *Model) handleNormalInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m.shutdown()
	case "?":
		m.showHelp = true
	case ":":
		m.commandInput.Active = true
		m.commandInput.Input = ""
		m.commandInput.CursorPos = 0
		m.commandInput.ClearResult()
		m.mode = ModeCommand
	case " ":
		m.sched.TogglePlay()
	case "h":
		m.adapter.Nudge(-m.stepSize)
	case "l":
		m.adapter.Nudge(m.stepSize)
	case "<":
		m.cycleStepSize(-1)
	case ">":
		m.cycleStepSize(1)
	case "s":
		m.adapter.BeginDrag()
		m.mode = ModeScrub
	case "m":
		m.muted = !m.muted
		if err := m.buffers.Active().SetMuted(m.muted); err != nil {
			return m.showResult("Mute failed: "+err.Error(), true)
		}
	case "r":
		m.sched.RetryPlay()
	case "j":
		m.captionList.MoveUp()
	case "k":
		m.captionList.MoveDown(m.track.Len())
	case "enter":
		if seg, ok := m.selectedSegment(); ok {
			m.adapter.SeekTo(m.globalTimeFor(seg.Start))
		}
	case "a":
		return m.addCaptionAtPlayhead()
	case "e":
		return m.openCaptionForm()
	case "x":
		return m.deleteSelectedCaption()
	case "p":
		if m.selectedClip > 0 {
			m.selectedClip--
		}
	case "n":
		if m.selectedClip < m.tl.Len()-1 {
			m.selectedClip++
		}
	case "[":
		m.setZoom(m.viewport.Zoom - zoomStep)
	case "]":
		m.setZoom(m.viewport.Zoom + zoomStep)
	}
	return m, nil
}

// handleScrubInput handles key events while a scrub drag is open.
func (m *Model) handleScrubInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	target := m.sched.CurrentTime()
	if sess := m.adapter.Session(); sess != nil {
		target = sess.TargetSec
	}

	switch msg.String() {
	case "h":
		m.adapter.DragTo(target - m.stepSize)
	case "l":
		m.adapter.DragTo(target + m.stepSize)
	case "<":
		m.cycleStepSize(-1)
	case ">":
		m.cycleStepSize(1)
	case "enter", "s":
		m.adapter.EndDrag()
		m.mode = ModeNormal
	case "esc":
		m.adapter.CancelDrag()
		m.mode = ModeNormal
	case "q", "ctrl+c":
		m.adapter.CancelDrag()
		return m.shutdown()
	}
	return m, nil
}

// handleCommandInput handles key events in command mode.
func (m *Model) handleCommandInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.commandInput.Clear()
		m.mode = ModeNormal
		return m, nil

	case "enter":
		cmd := m.commandInput.GetCommand()
		m.mode = ModeNormal
		if cmd == "" {
			return m, nil
		}
		result, err := m.executeCommand(cmd)
		if err != nil {
			return m.showResult("Error: "+err.Error(), true)
		}
		if m.quitting {
			return m.shutdown()
		}
		return m.showResult(result, false)

	case "backspace":
		m.commandInput.Backspace()
	case "delete":
		m.commandInput.Delete()
	case "left":
		m.commandInput.MoveCursorLeft()
	case "right":
		m.commandInput.MoveCursorRight()
	default:
		if len(msg.String()) == 1 {
			m.commandInput.InsertChar(rune(msg.String()[0]))
		} else if msg.Type == tea.KeyRunes {
			for _, r := range msg.Runes {
				m.commandInput.InsertChar(r)
			}
		}
	}
	return m, nil
}

// updateForm routes messages to the caption edit form.
func (m *Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.form == nil {
		m.mode = ModeNormal
		return m, nil
	}

	f, cmd := m.form.Update(msg)
	if form, ok := f.(*huh.Form); ok {
		m.form = form
	}

	switch m.form.State {
	case huh.StateCompleted:
		m.applyCaptionEdit()
		m.form = nil
		m.mode = ModeNormal
		return m.showResult("Caption updated", false)
	case huh.StateAborted:
		m.form = nil
		m.mode = ModeNormal
		return m, nil
	}

	return m, cmd
}

// openCaptionForm opens the edit form for the selected caption.
func (m *Model) openCaptionForm() (tea.Model, tea.Cmd) {
	seg, ok := m.selectedSegment()
	if !ok {
		return m.showResult("No caption selected", true)
	}
	m.editingSeg = seg.ID
	m.formResult = forms.CaptionFormResult{}
	m.form = forms.NewCaptionForm(seg, &m.formResult)
	m.mode = ModeEdit
	return m, m.form.Init()
}

// applyCaptionEdit writes the form result back through the track's clamped
// edit path and queues persistence. Clamping may adjust the entered times.
func (m *Model) applyCaptionEdit() {
	seg, _, ok := m.track.Get(m.editingSeg)
	if !ok {
		return
	}

	if start, end, err := m.formResult.Times(); err == nil {
		if d, ok := m.track.BeginDrag(seg.ID, caption.DragResizeEnd); ok {
			d.Update(end - seg.End)
			d.Commit()
		}
		if cur, _, ok := m.track.Get(seg.ID); ok {
			if d, ok2 := m.track.BeginDrag(seg.ID, caption.DragResizeStart); ok2 {
				d.Update(start - cur.Start)
				d.Commit()
			}
		}
	}
	m.track.SetText(seg.ID, m.formResult.Text)

	if final, _, ok := m.track.Get(seg.ID); ok {
		m.outbox.EnqueueTiming(m.track.MediaID(), final.ID, final.Start, final.End)
		m.outbox.EnqueueText(m.track.MediaID(), final.ID, final.Text)
	}
}

// addCaptionAtPlayhead inserts a short caption at the current media time.
func (m *Model) addCaptionAtPlayhead() (tea.Model, tea.Cmd) {
	at := m.mediaTime()
	seg, ok := m.track.Add(at, at+defaultCaptionLength, "")
	if !ok {
		return m.showResult("No room for a caption at the playhead", true)
	}
	m.outbox.EnqueueTiming(m.track.MediaID(), seg.ID, seg.Start, seg.End)

	// Select the new segment so 'e' edits it immediately.
	for i, s := range m.track.Segments() {
		if s.ID == seg.ID {
			m.captionList.SelectedIndex = i
			break
		}
	}
	return m.openCaptionForm()
}

// deleteSelectedCaption removes the selected caption locally and from the
// record store. Store failure is reported but the local delete stands.
func (m *Model) deleteSelectedCaption() (tea.Model, tea.Cmd) {
	seg, ok := m.selectedSegment()
	if !ok {
		return m.showResult("No caption selected", true)
	}
	m.track.Delete(seg.ID)
	m.captionList.Clamp(m.track.Len())
	if m.store != nil {
		if err := m.store.DeleteCaption(seg.ID); err != nil {
			m.log.Warn("delete caption", zap.Error(err))
			return m.showResult("Deleted locally; store delete failed", true)
		}
	}
	return m.showResult("Caption deleted", false)
}

// executeCommand parses and executes a ':' command.
func (m *Model) executeCommand(cmdStr string) (string, error) {
	parts := strings.Fields(cmdStr)
	if len(parts) == 0 {
		return "", nil
	}
	cmd, args := parts[0], parts[1:]

	switch cmd {
	case "split":
		clip, ok := m.selectedClipValue()
		if !ok {
			return "", fmt.Errorf("no clip selected")
		}
		if _, _, ok := m.tl.SplitClip(clip.ID, m.sched.CurrentTime()); !ok {
			return "", fmt.Errorf("split point too close to a clip edge")
		}
		m.sched.OnTimelineChanged()
		m.persistClips()
		return "Clip split at playhead", nil

	case "move":
		if len(args) < 1 {
			return "", fmt.Errorf("move requires a time (e.g. move 1:30)")
		}
		sec, err := timeutil.ParseTimeToSeconds(args[0])
		if err != nil {
			return "", err
		}
		clip, ok := m.selectedClipValue()
		if !ok {
			return "", fmt.Errorf("no clip selected")
		}
		m.tl.MoveClip(clip.ID, sec)
		m.sched.OnTimelineChanged()
		m.persistClips()
		return fmt.Sprintf("Clip moved toward %s", timeutil.FormatTime(sec)), nil

	case "triml", "trimr":
		if len(args) < 1 {
			return "", fmt.Errorf("%s requires a delta in seconds", cmd)
		}
		var delta float64
		if _, err := fmt.Sscanf(args[0], "%f", &delta); err != nil {
			return "", fmt.Errorf("invalid delta: %s", args[0])
		}
		clip, ok := m.selectedClipValue()
		if !ok {
			return "", fmt.Errorf("no clip selected")
		}
		if cmd == "triml" {
			m.tl.ResizeClipLeft(clip.ID, delta)
		} else {
			m.tl.ResizeClipRight(clip.ID, delta)
		}
		m.sched.OnTimelineChanged()
		m.persistClips()
		return "Clip trimmed", nil

	case "del":
		clip, ok := m.selectedClipValue()
		if !ok {
			return "", fmt.Errorf("no clip selected")
		}
		m.tl.DeleteClip(clip.ID)
		m.sched.OnClipDeleted(clip.ID)
		if m.selectedClip >= m.tl.Len() && m.selectedClip > 0 {
			m.selectedClip--
		}
		m.persistClips()
		return "Clip deleted", nil

	case "gapins", "gaprem":
		if len(args) < 1 {
			return "", fmt.Errorf("%s requires a duration in seconds", cmd)
		}
		var delta float64
		if _, err := fmt.Sscanf(args[0], "%f", &delta); err != nil {
			return "", fmt.Errorf("invalid duration: %s", args[0])
		}
		seg, ok := m.selectedSegment()
		if !ok {
			return "", fmt.Errorf("no caption selected")
		}
		var applied bool
		if cmd == "gapins" {
			applied = m.track.InsertGapAfter(seg.ID, delta)
		} else {
			applied = m.track.RemoveGapAfter(seg.ID, delta)
		}
		if !applied {
			return "", fmt.Errorf("gap edit does not fit")
		}
		m.enqueueTimingsFrom(m.captionList.SelectedIndex)
		return "Gap adjusted", nil

	case "goto":
		if len(args) < 1 {
			return "", fmt.Errorf("goto requires a time (e.g. goto 1:30)")
		}
		sec, err := timeutil.ParseTimeToSeconds(args[0])
		if err != nil {
			return "", err
		}
		m.adapter.SeekTo(sec)
		return fmt.Sprintf("Jumped to %s", timeutil.FormatTime(sec)), nil

	case "zoom":
		if len(args) < 1 {
			return fmt.Sprintf("Zoom: %.0f%%", m.viewport.Zoom*100), nil
		}
		var z float64
		if _, err := fmt.Sscanf(args[0], "%f", &z); err != nil {
			return "", fmt.Errorf("invalid zoom: %s", args[0])
		}
		if z > 1 {
			z /= 100
		}
		m.setZoom(z)
		return fmt.Sprintf("Zoom set to %.0f%%", m.viewport.Zoom*100), nil

	case "save":
		m.persistClips()
		m.persistSession()
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		m.outbox.Drain(ctx)
		return "Saved", nil

	case "play":
		m.sched.Play()
		return "Playing", nil
	case "pause", "p":
		m.sched.Pause()
		return "Paused", nil
	case "mute":
		m.muted = !m.muted
		if err := m.buffers.Active().SetMuted(m.muted); err != nil {
			return "", err
		}
		if m.muted {
			return "Muted", nil
		}
		return "Unmuted", nil
	case "help":
		return "Commands: split, move, triml, trimr, del, gapins, gaprem, goto, zoom, save, play, pause, mute, quit", nil
	case "q", "quit":
		m.quitting = true
		return "", nil
	default:
		return "", fmt.Errorf("unknown command: %s", cmd)
	}
}

// enqueueTimingsFrom queues persistence for every segment at or after index.
// Gap edits shift all following segments, so all of them are re-saved.
func (m *Model) enqueueTimingsFrom(index int) {
	segs := m.track.Segments()
	for i := index; i < len(segs); i++ {
		m.outbox.EnqueueTiming(m.track.MediaID(), segs[i].ID, segs[i].Start, segs[i].End)
	}
}

// persistClips saves the current clip arrangement, best-effort.
func (m *Model) persistClips() {
	if m.store == nil || m.session == nil {
		return
	}
	if err := m.store.ReplaceClips(m.session.ID, m.tl.Clips()); err != nil {
		m.log.Warn("persist clips", zap.Error(err))
		m.commandInput.SetResult("Clip save failed: "+err.Error(), true)
	}
}

// persistSession saves the playhead and viewport, best-effort.
func (m *Model) persistSession() {
	if m.store == nil || m.session == nil {
		return
	}
	if err := m.store.SaveSessionPosition(m.session.ID, m.sched.CurrentTime()); err != nil {
		m.log.Warn("persist position", zap.Error(err))
	}
	if err := m.store.SaveSessionLayout(m.session.ID, m.viewport.Zoom, m.viewport.ScrollSec); err != nil {
		m.log.Warn("persist layout", zap.Error(err))
	}
}

// shutdown flushes state and quits.
func (m *Model) shutdown() (tea.Model, tea.Cmd) {
	m.quitting = true
	m.persistClips()
	m.persistSession()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	m.outbox.Drain(ctx)
	return m, tea.Quit
}

// showResult surfaces a message on the command line and schedules its clear.
func (m *Model) showResult(msg string, isErr bool) (tea.Model, tea.Cmd) {
	if msg == "" {
		return m, nil
	}
	m.commandInput.SetResult(msg, isErr)
	return m, tea.Tick(resultDisplayDuration, func(time.Time) tea.Msg {
		return clearResultMsg{}
	})
}

// drainNotices moves buffered engine notifications onto the command line.
func (m *Model) drainNotices() {
	if m.notices == nil {
		return
	}
	for {
		select {
		case n := <-m.notices.ch:
			m.commandInput.SetResult(n.message, n.severity != notify.Info)
		default:
			return
		}
	}
}

// followPlayhead keeps the viewport scrolled so the playhead stays visible.
func (m *Model) followPlayhead() {
	if m.adapter.Dragging() {
		return
	}
	cur := m.sched.CurrentTime()
	visible := geometry.VisibleDuration(m.viewport.Zoom)
	if cur < m.viewport.ScrollSec || cur > m.viewport.ScrollSec+visible*0.9 {
		scroll := cur - visible/3
		if scroll < 0 {
			scroll = 0
		}
		m.viewport.ScrollSec = scroll
	}
}

// savePositionPeriodically writes the playhead to the store every couple of
// seconds so a crash resumes near where the user left off.
func (m *Model) savePositionPeriodically() {
	m.ticksSince++
	if m.ticksSince < positionSaveTicks {
		return
	}
	m.ticksSince = 0
	if m.store == nil || m.session == nil {
		return
	}
	if err := m.store.SaveSessionPosition(m.session.ID, m.sched.CurrentTime()); err != nil {
		m.log.Debug("periodic position save", zap.Error(err))
	}
}

// cycleStepSize moves to the next smaller or larger nudge step.
func (m *Model) cycleStepSize(direction int) {
	idx := 0
	for i, size := range stepSizes {
		if m.stepSize == size {
			idx = i
			break
		}
	}
	idx += direction
	if idx < 0 {
		idx = 0
	}
	if idx > len(stepSizes)-1 {
		idx = len(stepSizes) - 1
	}
	m.stepSize = stepSizes[idx]
}

func (m *Model) setZoom(z float64) {
	m.viewport.Zoom = clampZoom(z)
}

func clampZoom(z float64) float64 {
	if z < geometry.ZoomMin {
		return geometry.ZoomMin
	}
	if z > geometry.ZoomMax {
		return geometry.ZoomMax
	}
	return z
}

// selectedSegment returns the caption under the list selection.
func (m *Model) selectedSegment() (caption.Segment, bool) {
	segs := m.track.Segments()
	if len(segs) == 0 {
		return caption.Segment{}, false
	}
	m.captionList.Clamp(len(segs))
	return segs[m.captionList.SelectedIndex], true
}

// selectedClipValue returns the clip under the clip selection.
func (m *Model) selectedClipValue() (timeline.Clip, bool) {
	clips := m.tl.Clips()
	if len(clips) == 0 {
		return timeline.Clip{}, false
	}
	if m.selectedClip >= len(clips) {
		m.selectedClip = len(clips) - 1
	}
	return clips[m.selectedClip], true
}

// mediaTime maps the global playhead into the caption track's media time
// base via the active clip. Outside any clip it falls back to the playhead.
func (m *Model) mediaTime() float64 {
	snap := m.sched.Snapshot()
	if clip, ok := m.tl.Get(snap.ActiveClipID); ok && clip.MediaSourceID == m.track.MediaID() {
		return clip.MediaTime(snap.CurrentTime)
	}
	return snap.CurrentTime
}

// displaySegments maps the track's media-time segments onto the global
// timeline for the lane view. Segments outside every clip render at their
// raw position, which matches the single-untrimmed-clip common case.
func (m *Model) displaySegments() []caption.Segment {
	segs := m.track.Segments()
	for i := range segs {
		segs[i].Start = m.globalTimeFor(segs[i].Start)
		segs[i].End = m.globalTimeFor(segs[i].End)
	}
	return segs
}

// globalTimeFor maps a media-time position back onto the global timeline by
// finding a clip of the track's source whose trim range covers it.
func (m *Model) globalTimeFor(mediaSec float64) float64 {
	for _, c := range m.tl.Clips() {
		if c.MediaSourceID != m.track.MediaID() {
			continue
		}
		if mediaSec >= c.TrimStartSec && mediaSec < c.TrimEndSec {
			return c.StartSec + (mediaSec - c.TrimStartSec)
		}
	}
	return mediaSec
}

// transportState builds the transport bar snapshot.
func (m *Model) transportState() components.TransportState {
	snap := m.sched.Snapshot()
	return components.TransportState{
		StateLabel:   string(snap.State),
		Playing:      snap.IsPlaying,
		TimePos:      snap.CurrentTime,
		Duration:     snap.Duration,
		StepSize:     m.stepSize,
		Muted:        m.muted,
		Zoom:         m.viewport.Zoom,
		PendingSaves: m.outbox.Pending(),
		PendingPlay:  snap.PendingPlay,
		Poster:       snap.PosterVisible,
	}
}

// View renders the editor.
func (m *Model) View() string {
	if m.quitting {
		return "Goodbye!\n"
	}

	if m.showHelp {
		return components.HelpOverlay(m.width, m.height)
	}

	transport := components.TransportBar(m.transportState(), m.width)

	if m.mode == ModeEdit && m.form != nil {
		return transport + "\n" + m.form.View()
	}

	if m.width > 0 && m.width < layout.MinTerminalWidth {
		return transport + "\n" + components.RenderCompactTransport(m.transportState(), m.width)
	}

	snap := m.sched.Snapshot()

	// Timeline box is 5 lines, transport and command line 1 each.
	colHeight := m.height - 7
	if colHeight < 5 {
		colHeight = 5
	}

	w1, w2, w3, showCol3 := layout.ComputeColumnWidths(m.width)
	columns := []string{
		m.renderSessionColumn(w1, colHeight),
		m.renderCaptionColumn(w2, colHeight),
	}
	widths := []int{w1, w2}
	if showCol3 {
		columns = append(columns, m.renderControlsColumn(w3, colHeight))
		widths = append(widths, w3)
	}
	columnsView := layout.JoinColumns(columns, widths, colHeight)

	lane := components.TimelineView(
		m.viewport,
		m.tl.Ranges(),
		m.displaySegments(),
		snap.CurrentTime,
		m.tl.TotalDuration(),
		snap.ActiveClipID,
		m.width,
	)

	commandLine := components.CommandInput(m.commandInput, m.width)

	return transport + "\n" + columnsView + "\n" + lane + "\n" + commandLine
}
