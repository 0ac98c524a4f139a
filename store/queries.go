package store

import (
	_ "embed"
)

// Schema

//go:embed sql/create_tables.sql
var createTablesSQL string

// Session queries

//go:embed sql/insert_session.sql
var insertSessionSQL string

//go:embed sql/select_session_by_path.sql
var selectSessionByPathSQL string

//go:embed sql/update_session_duration.sql
var updateSessionDurationSQL string

//go:embed sql/update_session_position.sql
var updateSessionPositionSQL string

//go:embed sql/update_session_layout.sql
var updateSessionLayoutSQL string

// Clip queries

//go:embed sql/delete_clips_by_session.sql
var deleteClipsBySessionSQL string

//go:embed sql/insert_clip.sql
var insertClipSQL string

//go:embed sql/select_clips_by_session.sql
var selectClipsBySessionSQL string

// Caption queries

//go:embed sql/upsert_caption_timing.sql
var upsertCaptionTimingSQL string

//go:embed sql/upsert_caption_text.sql
var upsertCaptionTextSQL string

//go:embed sql/select_captions_by_media.sql
var selectCaptionsByMediaSQL string

//go:embed sql/delete_caption.sql
var deleteCaptionSQL string
