package components

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/user/caption-studio-cli/tui/styles"
)

// CommandInputState holds the state for the command line at the bottom of
// the screen. When inactive it doubles as the notification line.
type CommandInputState struct {
	// Active indicates if command mode is active
	Active bool
	// Input is the current command input buffer
	Input string
	// CursorPos is the cursor position within the input
	CursorPos int
	// Result is the message to display when not in command mode
	Result string
	// IsError indicates if the result is an error message
	IsError bool
}

// CommandInput renders the command line. When active it shows a ':' prompt
// with the buffer and cursor; otherwise the last result or notification.
func CommandInput(state CommandInputState, width int) string {
	lineStyle := lipgloss.NewStyle().
		Background(styles.DarkPurple).
		Width(width)

	if state.Active {
		promptStyle := lipgloss.NewStyle().
			Foreground(styles.Cyan).
			Bold(true)
		inputStyle := lipgloss.NewStyle().
			Foreground(styles.LightLavender)

		input := state.Input
		var display string
		if state.CursorPos >= len(input) {
			display = input + "_"
		} else {
			display = input[:state.CursorPos] + "_" + input[state.CursorPos:]
		}

		return lineStyle.Render(promptStyle.Render(":") + inputStyle.Render(display))
	}

	if state.Result != "" {
		resultStyle := lipgloss.NewStyle().
			Foreground(styles.Cyan).
			Bold(true)
		if state.IsError {
			resultStyle = lipgloss.NewStyle().
				Foreground(styles.Pink).
				Bold(true)
		}
		return lineStyle.Render(" " + resultStyle.Render(state.Result))
	}

	return lineStyle.Render(" ")
}

// InsertChar inserts a character at the current cursor position.
func (s *CommandInputState) InsertChar(c rune) {
	if s.CursorPos >= len(s.Input) {
		s.Input += string(c)
	} else {
		s.Input = s.Input[:s.CursorPos] + string(c) + s.Input[s.CursorPos:]
	}
	s.CursorPos++
}

// Backspace deletes the character before the cursor.
func (s *CommandInputState) Backspace() {
	if s.CursorPos > 0 && len(s.Input) > 0 {
		if s.CursorPos >= len(s.Input) {
			s.Input = s.Input[:len(s.Input)-1]
		} else {
			s.Input = s.Input[:s.CursorPos-1] + s.Input[s.CursorPos:]
		}
		s.CursorPos--
	}
}

// Delete deletes the character at the cursor.
func (s *CommandInputState) Delete() {
	if s.CursorPos < len(s.Input) {
		s.Input = s.Input[:s.CursorPos] + s.Input[s.CursorPos+1:]
	}
}

// MoveCursorLeft moves the cursor left.
func (s *CommandInputState) MoveCursorLeft() {
	if s.CursorPos > 0 {
		s.CursorPos--
	}
}

// MoveCursorRight moves the cursor right.
func (s *CommandInputState) MoveCursorRight() {
	if s.CursorPos < len(s.Input) {
		s.CursorPos++
	}
}

// Clear clears the input buffer and deactivates command mode.
func (s *CommandInputState) Clear() {
	s.Input = ""
	s.CursorPos = 0
	s.Active = false
}

// GetCommand returns the current command and clears the input.
func (s *CommandInputState) GetCommand() string {
	cmd := s.Input
	s.Clear()
	return cmd
}

// SetResult sets the result message.
func (s *CommandInputState) SetResult(msg string, isError bool) {
	s.Result = msg
	s.IsError = isError
}

// ClearResult clears the result message.
func (s *CommandInputState) ClearResult() {
	s.Result = ""
	s.IsError = false
}
