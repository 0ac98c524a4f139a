package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/user/caption-studio-cli/caption"
	"github.com/user/caption-studio-cli/timeline"
)

var _ caption.Store = (*Store)(nil)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "data.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	s.Close()

	// Reopening must re-run create_tables and skip applied migrations.
	s, err = Open(path)
	if err != nil {
		t.Fatalf("second open: %v", err)
	}
	s.Close()
}

func TestEnsureSession(t *testing.T) {
	s := openTestStore(t)

	sess, err := s.EnsureSession("/media/talk.mp4", 120)
	if err != nil {
		t.Fatal(err)
	}
	if sess.ID == 0 {
		t.Fatal("expected a session id")
	}

	again, err := s.EnsureSession("/media/talk.mp4", 0)
	if err != nil {
		t.Fatal(err)
	}
	if again.ID != sess.ID {
		t.Errorf("expected same session, got %d and %d", sess.ID, again.ID)
	}
	if again.DurationSec != 120 {
		t.Errorf("zero duration must not clobber stored duration, got %f", again.DurationSec)
	}

	reprobed, err := s.EnsureSession("/media/talk.mp4", 121.5)
	if err != nil {
		t.Fatal(err)
	}
	if reprobed.DurationSec != 121.5 {
		t.Errorf("expected re-probed duration 121.5, got %f", reprobed.DurationSec)
	}
}

func TestSessionPositionAndLayout(t *testing.T) {
	s := openTestStore(t)
	sess, err := s.EnsureSession("/media/talk.mp4", 120)
	if err != nil {
		t.Fatal(err)
	}

	if err := s.SaveSessionPosition(sess.ID, 42.5); err != nil {
		t.Fatal(err)
	}
	if err := s.SaveSessionLayout(sess.ID, 0.7, 30); err != nil {
		t.Fatal(err)
	}

	got, err := s.EnsureSession("/media/talk.mp4", 0)
	if err != nil {
		t.Fatal(err)
	}
	if got.PositionSec != 42.5 || got.Zoom != 0.7 || got.ScrollSec != 30 {
		t.Errorf("unexpected session state: %+v", got)
	}
}

func TestReplaceClipsRoundTrip(t *testing.T) {
	s := openTestStore(t)
	sess, err := s.EnsureSession("/media/talk.mp4", 120)
	if err != nil {
		t.Fatal(err)
	}

	clips := []timeline.Clip{
		{ID: "c1", MediaSourceID: "srcA", StartSec: 0, BaseDurationSec: 10, TrimStartSec: 0, TrimEndSec: 10},
		{ID: "c2", MediaSourceID: "srcB", StartSec: 10, BaseDurationSec: 20, TrimStartSec: 5, TrimEndSec: 12},
	}
	if err := s.ReplaceClips(sess.ID, clips); err != nil {
		t.Fatal(err)
	}

	// A second save replaces, not appends.
	clips[1].StartSec = 11
	if err := s.ReplaceClips(sess.ID, clips); err != nil {
		t.Fatal(err)
	}

	got, err := s.SelectClips(sess.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 clips, got %d", len(got))
	}
	if got[0].ID != "c1" || got[1].ID != "c2" {
		t.Errorf("clips out of order: %q then %q", got[0].ID, got[1].ID)
	}
	if got[1].StartSec != 11 || got[1].TrimStartSec != 5 || got[1].TrimEndSec != 12 {
		t.Errorf("unexpected second clip: %+v", got[1])
	}
}

func TestCaptionUpserts(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.UpdateCaptionTiming(ctx, "m1", "seg1", 1.5, 3.0); err != nil {
		t.Fatal(err)
	}
	if err := s.UpdateCaptionText(ctx, "m1", "seg1", "hello there"); err != nil {
		t.Fatal(err)
	}
	// Timing update on an existing row must not clobber text.
	if err := s.UpdateCaptionTiming(ctx, "m1", "seg1", 1.5, 3.5); err != nil {
		t.Fatal(err)
	}
	if err := s.UpdateCaptionTiming(ctx, "m1", "seg0", 0.0, 1.0); err != nil {
		t.Fatal(err)
	}

	caps, err := s.SelectCaptions("m1")
	if err != nil {
		t.Fatal(err)
	}
	if len(caps) != 2 {
		t.Fatalf("expected 2 captions, got %d", len(caps))
	}
	if caps[0].ID != "seg0" {
		t.Errorf("expected start ordering, got %q first", caps[0].ID)
	}
	if caps[1].Text != "hello there" || caps[1].EndSec != 3.5 {
		t.Errorf("unexpected caption: %+v", caps[1])
	}
	if caps[1].Language != "en" {
		t.Errorf("expected default language en, got %q", caps[1].Language)
	}

	if err := s.DeleteCaption("seg0"); err != nil {
		t.Fatal(err)
	}
	caps, err = s.SelectCaptions("m1")
	if err != nil {
		t.Fatal(err)
	}
	if len(caps) != 1 {
		t.Errorf("expected 1 caption after delete, got %d", len(caps))
	}
}
