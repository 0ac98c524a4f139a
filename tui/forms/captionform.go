package forms

import (
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/user/caption-studio-cli/caption"
	"github.com/user/caption-studio-cli/pkg/timeutil"
)

// CaptionFormResult holds the edited caption fields. Times are entered as
// timecode strings (MM:SS.mmm, MM:SS, or raw seconds) and parsed on submit.
type CaptionFormResult struct {
	Text  string
	Start string
	End   string
}

// Times parses the entered timecodes into seconds.
func (r *CaptionFormResult) Times() (start, end float64, err error) {
	start, err = timeutil.ParseTimeToSeconds(r.Start)
	if err != nil {
		return 0, 0, err
	}
	end, err = timeutil.ParseTimeToSeconds(r.End)
	if err != nil {
		return 0, 0, err
	}
	return start, end, nil
}

// NewCaptionForm creates a huh form for editing one caption segment.
// The result pointer is pre-filled from the segment and bound to the fields.
func NewCaptionForm(seg caption.Segment, result *CaptionFormResult) *huh.Form {
	result.Text = seg.Text
	result.Start = timeutil.FormatTimecode(seg.Start)
	result.End = timeutil.FormatTimecode(seg.End)

	validTime := func(s string) error {
		_, err := timeutil.ParseTimeToSeconds(s)
		return err
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewNote().Title(fmt.Sprintf("Edit Caption @ %s", timeutil.FormatTimecode(seg.Start))),

			huh.NewInput().
				Title("Text").
				Value(&result.Text),

			huh.NewInput().
				Title("Start").
				Description("MM:SS.mmm or seconds").
				Value(&result.Start).
				Validate(validTime),

			huh.NewInput().
				Title("End").
				Description("MM:SS.mmm or seconds").
				Value(&result.End).
				Validate(validTime),
		),
	).WithTheme(Theme())

	return form
}
