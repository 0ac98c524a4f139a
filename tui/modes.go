package tui

// Mode is the top-level input mode of the editor.
type Mode int

const (
	// ModeNormal routes keys to playback, timeline, and caption selection.
	ModeNormal Mode = iota
	// ModeScrub routes h/l to the drag session; Enter commits, Esc cancels.
	ModeScrub
	// ModeCommand routes keys to the ':' command line.
	ModeCommand
	// ModeEdit routes keys to the caption edit form.
	ModeEdit
)

// String returns the indicator label for the mode.
func (m Mode) String() string {
	switch m {
	case ModeScrub:
		return "SCRUB"
	case ModeCommand:
		return "COMMAND"
	case ModeEdit:
		return "EDIT"
	default:
		return "NORMAL"
	}
}
