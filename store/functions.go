package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/user/caption-studio-cli/timeline"
)

// EnsureSession returns the existing session for the given media path, or
// inserts a new one and returns it. If durationSec > 0 it is written to the
// row either way so a re-probed duration stays current.
func (s *Store) EnsureSession(mediaPath string, durationSec float64) (*Session, error) {
	var sess Session
	err := s.db.QueryRow(selectSessionByPathSQL, mediaPath).Scan(
		&sess.ID, &sess.MediaPath, &sess.DurationSec, &sess.PositionSec, &sess.Zoom, &sess.ScrollSec)
	if err == nil {
		if durationSec > 0 && sess.DurationSec != durationSec {
			if _, err := s.db.Exec(updateSessionDurationSQL, durationSec, sess.ID); err != nil {
				return nil, fmt.Errorf("update session duration: %w", err)
			}
			sess.DurationSec = durationSec
		}
		return &sess, nil
	}
	if err != sql.ErrNoRows {
		return nil, fmt.Errorf("select session by path: %w", err)
	}

	result, err := s.db.Exec(insertSessionSQL, mediaPath, durationSec)
	if err != nil {
		return nil, fmt.Errorf("insert session: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("get session id: %w", err)
	}
	return &Session{ID: id, MediaPath: mediaPath, DurationSec: durationSec}, nil
}

// SaveSessionPosition records the last playhead position for the session.
func (s *Store) SaveSessionPosition(sessionID int64, positionSec float64) error {
	if _, err := s.db.Exec(updateSessionPositionSQL, positionSec, sessionID); err != nil {
		return fmt.Errorf("save session position: %w", err)
	}
	return nil
}

// SaveSessionLayout records the last viewport zoom and scroll for the session.
func (s *Store) SaveSessionLayout(sessionID int64, zoom, scrollSec float64) error {
	if _, err := s.db.Exec(updateSessionLayoutSQL, zoom, scrollSec, sessionID); err != nil {
		return fmt.Errorf("save session layout: %w", err)
	}
	return nil
}

// ReplaceClips overwrites the session's persisted clip placements with the
// given set, in order. Done in one transaction so a crash mid-save can't
// leave a half-written arrangement.
func (s *Store) ReplaceClips(sessionID int64, clips []timeline.Clip) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin replace clips: %w", err)
	}
	if _, err := tx.Exec(deleteClipsBySessionSQL, sessionID); err != nil {
		tx.Rollback()
		return fmt.Errorf("delete clips: %w", err)
	}
	for i, c := range clips {
		_, err := tx.Exec(insertClipSQL, c.ID, sessionID, c.MediaSourceID,
			c.StartSec, c.BaseDurationSec, c.TrimStartSec, c.TrimEndSec, i)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("insert clip %s: %w", c.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace clips: %w", err)
	}
	return nil
}

// SelectClips returns the session's persisted clip placements in saved order.
func (s *Store) SelectClips(sessionID int64) ([]ClipRecord, error) {
	rows, err := s.db.Query(selectClipsBySessionSQL, sessionID)
	if err != nil {
		return nil, fmt.Errorf("select clips: %w", err)
	}
	defer rows.Close()

	var clips []ClipRecord
	for rows.Next() {
		var c ClipRecord
		if err := rows.Scan(&c.ID, &c.MediaSourceID, &c.StartSec, &c.BaseDurationSec, &c.TrimStartSec, &c.TrimEndSec); err != nil {
			return nil, fmt.Errorf("scan clip: %w", err)
		}
		clips = append(clips, c)
	}
	return clips, rows.Err()
}

// UpdateCaptionTiming upserts a caption segment's timing.
func (s *Store) UpdateCaptionTiming(ctx context.Context, mediaID, segmentID string, startSec, endSec float64) error {
	_, err := s.db.ExecContext(ctx, upsertCaptionTimingSQL, segmentID, mediaID, startSec, endSec)
	if err != nil {
		return fmt.Errorf("upsert caption timing: %w", err)
	}
	return nil
}

// UpdateCaptionText upserts a caption segment's text.
func (s *Store) UpdateCaptionText(ctx context.Context, mediaID, segmentID, text string) error {
	_, err := s.db.ExecContext(ctx, upsertCaptionTextSQL, segmentID, mediaID, text)
	if err != nil {
		return fmt.Errorf("upsert caption text: %w", err)
	}
	return nil
}

// SelectCaptions returns all caption segments for the media, ordered by start.
func (s *Store) SelectCaptions(mediaID string) ([]CaptionRecord, error) {
	rows, err := s.db.Query(selectCaptionsByMediaSQL, mediaID)
	if err != nil {
		return nil, fmt.Errorf("select captions: %w", err)
	}
	defer rows.Close()

	var caps []CaptionRecord
	for rows.Next() {
		var c CaptionRecord
		if err := rows.Scan(&c.ID, &c.MediaID, &c.StartSec, &c.EndSec, &c.Text, &c.Language); err != nil {
			return nil, fmt.Errorf("scan caption: %w", err)
		}
		caps = append(caps, c)
	}
	return caps, rows.Err()
}

// DeleteCaption removes a caption segment row.
func (s *Store) DeleteCaption(segmentID string) error {
	if _, err := s.db.Exec(deleteCaptionSQL, segmentID); err != nil {
		return fmt.Errorf("delete caption: %w", err)
	}
	return nil
}
