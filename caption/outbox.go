package caption

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/user/caption-studio-cli/pkg/notify"
)

const (
	// drainDebounce coalesces rapid edits before touching the store.
	drainDebounce = 500 * time.Millisecond
	// drainPoll is the idle sleep between queue checks.
	drainPoll = 200 * time.Millisecond
	// maxAttempts bounds retries for one command before giving up.
	maxAttempts = 3
	// retryBackoff is the base delay between attempts, doubled each time.
	retryBackoff = 250 * time.Millisecond
)

// Store is the external record-store surface the outbox drains into. All
// calls are best-effort from the engine's perspective.
type Store interface {
	UpdateCaptionTiming(ctx context.Context, mediaID, segmentID string, startSec, endSec float64) error
	UpdateCaptionText(ctx context.Context, mediaID, segmentID, text string) error
}

// command is one pending upsert, keyed by segment id. Later edits to the
// same segment overwrite earlier ones (last write wins).
type command struct {
	mediaID   string
	segmentID string

	hasTiming bool
	startSec  float64
	endSec    float64

	hasText bool
	text    string

	touchedAt time.Time
}

// Outbox queues idempotent caption upserts and drains them in the
// background with retry and backoff. Local track state is the source of
// truth: a command that keeps failing is dropped with a notification,
// never rolled back into the track.
type Outbox struct {
	store Store
	log   *zap.Logger
	sink  notify.Notifier

	mu    sync.Mutex
	queue map[string]*command

	// backoff is the base retry delay; tests shrink it.
	backoff time.Duration
}

// NewOutbox creates an outbox over a store.
func NewOutbox(store Store, log *zap.Logger, sink notify.Notifier) *Outbox {
	if log == nil {
		log = zap.NewNop()
	}
	if sink == nil {
		sink = notify.Nop()
	}
	return &Outbox{
		store:   store,
		log:     log,
		sink:    sink,
		queue:   make(map[string]*command),
		backoff: retryBackoff,
	}
}

// EnqueueTiming records a timing upsert for a segment, coalescing with
// any pending command for the same segment.
func (o *Outbox) EnqueueTiming(mediaID, segmentID string, startSec, endSec float64) {
	o.mu.Lock()
	defer o.mu.Unlock()
	c := o.upsert(mediaID, segmentID)
	c.hasTiming = true
	c.startSec = startSec
	c.endSec = endSec
	c.touchedAt = time.Now()
}

// EnqueueText records a text upsert for a segment.
func (o *Outbox) EnqueueText(mediaID, segmentID, text string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	c := o.upsert(mediaID, segmentID)
	c.hasText = true
	c.text = text
	c.touchedAt = time.Now()
}

// Pending returns the number of queued commands.
func (o *Outbox) Pending() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.queue)
}

// Start launches the background drain goroutine. It exits when ctx is
// cancelled.
func (o *Outbox) Start(ctx context.Context) {
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-time.After(drainPoll):
			}
			if c, ok := o.takeSettled(); ok {
				o.deliver(ctx, c)
			}
		}
	}()
}

// Drain synchronously delivers every settled command. Used on shutdown
// and in tests.
func (o *Outbox) Drain(ctx context.Context) {
	for {
		c, ok := o.take()
		if !ok {
			return
		}
		o.deliver(ctx, c)
	}
}

// upsert finds or creates the pending command for a segment. Caller holds
// the lock.
func (o *Outbox) upsert(mediaID, segmentID string) *command {
	if c, ok := o.queue[segmentID]; ok {
		return c
	}
	c := &command{mediaID: mediaID, segmentID: segmentID}
	o.queue[segmentID] = c
	return c
}

// takeSettled pops a command whose debounce window has passed, so a
// segment mid-drag is not persisted on every pointer move.
func (o *Outbox) takeSettled() (*command, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	now := time.Now()
	for id, c := range o.queue {
		if now.Sub(c.touchedAt) >= drainDebounce {
			delete(o.queue, id)
			return c, true
		}
	}
	return nil, false
}

// take pops any command regardless of debounce.
func (o *Outbox) take() (*command, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	for id, c := range o.queue {
		delete(o.queue, id)
		return c, true
	}
	return nil, false
}

// deliver pushes one command to the store, retrying with backoff. On
// final failure the user is notified and the command is dropped; the
// local edit stands.
func (o *Outbox) deliver(ctx context.Context, c *command) {
	var err error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return
			case <-time.After(o.backoff << attempt):
			}
		}
		err = o.push(ctx, c)
		if err == nil {
			return
		}
		o.log.Warn("caption persist attempt failed",
			zap.String("segment", c.segmentID),
			zap.Int("attempt", attempt+1),
			zap.Error(err))
	}
	o.sink.Notify("failed to save caption edit; it is kept locally", notify.Error)
}

func (o *Outbox) push(ctx context.Context, c *command) error {
	if c.hasTiming {
		if err := o.store.UpdateCaptionTiming(ctx, c.mediaID, c.segmentID, c.startSec, c.endSec); err != nil {
			return err
		}
	}
	if c.hasText {
		if err := o.store.UpdateCaptionText(ctx, c.mediaID, c.segmentID, c.text); err != nil {
			return err
		}
	}
	return nil
}
