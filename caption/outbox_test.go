package caption

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/user/caption-studio-cli/pkg/notify"
)

// fakeStore counts record-store calls and can be made to fail.
type fakeStore struct {
	mu          sync.Mutex
	timingCalls []struct {
		segmentID string
		start     float64
		end       float64
	}
	textCalls map[string]string
	err       error
}

func newFakeStore() *fakeStore {
	return &fakeStore{textCalls: map[string]string{}}
}

func (f *fakeStore) UpdateCaptionTiming(_ context.Context, _, segmentID string, start, end float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.timingCalls = append(f.timingCalls, struct {
		segmentID string
		start     float64
		end       float64
	}{segmentID, start, end})
	return nil
}

func (f *fakeStore) UpdateCaptionText(_ context.Context, _, segmentID, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.textCalls[segmentID] = text
	return nil
}

func TestOutboxCoalescesLastWriteWins(t *testing.T) {
	store := newFakeStore()
	o := NewOutbox(store, nil, nil)

	o.EnqueueTiming("m", "seg-1", 1, 2)
	o.EnqueueTiming("m", "seg-1", 1.5, 2.5)
	o.EnqueueTiming("m", "seg-1", 3, 4)

	if o.Pending() != 1 {
		t.Fatalf("expected coalesced single command, got %d", o.Pending())
	}
	o.Drain(context.Background())

	if len(store.timingCalls) != 1 {
		t.Fatalf("expected one store call, got %d", len(store.timingCalls))
	}
	if store.timingCalls[0].start != 3 || store.timingCalls[0].end != 4 {
		t.Errorf("expected last write to win, got %+v", store.timingCalls[0])
	}
}

func TestOutboxCombinesTimingAndText(t *testing.T) {
	store := newFakeStore()
	o := NewOutbox(store, nil, nil)

	o.EnqueueTiming("m", "seg-1", 1, 2)
	o.EnqueueText("m", "seg-1", "hello")
	o.Drain(context.Background())

	if len(store.timingCalls) != 1 || store.textCalls["seg-1"] != "hello" {
		t.Errorf("expected one combined upsert, got %+v / %+v", store.timingCalls, store.textCalls)
	}
}

func TestOutboxFailureNotifiesWithoutRollback(t *testing.T) {
	store := newFakeStore()
	store.err = errors.New("store offline")

	var notified []string
	sink := notify.Func(func(msg string, sev notify.Severity) {
		if sev == notify.Error {
			notified = append(notified, msg)
		}
	})
	o := NewOutbox(store, nil, sink)
	o.backoff = 1 // keep the retry loop fast under test

	tr := NewTrack("m", 60)
	seg, _ := tr.Add(1, 2, "text")
	o.EnqueueTiming("m", seg.ID, 5, 6)
	o.Drain(context.Background())

	if len(notified) != 1 {
		t.Fatalf("expected one error notification, got %d", len(notified))
	}
	// The local edit stands regardless of the persistence failure.
	got, _, _ := tr.Get(seg.ID)
	if got.Start != 1 || got.End != 2 {
		t.Error("outbox must never touch local track state")
	}
	if o.Pending() != 0 {
		t.Error("failed command should be dropped, not requeued forever")
	}
}
