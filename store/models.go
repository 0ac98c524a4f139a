package store

// Session represents a row in the sessions table: one editing session per
// opened media path, remembering where the user left off.
type Session struct {
	ID          int64
	MediaPath   string
	DurationSec float64
	PositionSec float64
	Zoom        float64
	ScrollSec   float64
}

// ClipRecord represents a row in the clips table.
type ClipRecord struct {
	ID              string
	MediaSourceID   string
	StartSec        float64
	BaseDurationSec float64
	TrimStartSec    float64
	TrimEndSec      float64
}

// CaptionRecord represents a row in the captions table.
type CaptionRecord struct {
	ID       string
	MediaID  string
	StartSec float64
	EndSec   float64
	Text     string
	Language string
}
