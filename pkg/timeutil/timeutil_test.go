package timeutil

import "testing"

func TestFormatTime(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "0:00:00"},
		{90, "0:01:30"},
		{4282, "1:11:22"},
		{-5, "0:00:00"},
	}
	for _, c := range cases {
		if got := FormatTime(c.in); got != c.want {
			t.Errorf("FormatTime(%.1f) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestFormatTimecode(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "00:00.000"},
		{12.5, "00:12.500"},
		{61.042, "01:01.042"},
	}
	for _, c := range cases {
		if got := FormatTimecode(c.in); got != c.want {
			t.Errorf("FormatTimecode(%.3f) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestParseTimeToSeconds(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"1:02:03", 3723},
		{"2:30", 150},
		{"2:30.5", 150.5},
		{"45.25", 45.25},
	}
	for _, c := range cases {
		got, err := ParseTimeToSeconds(c.in)
		if err != nil {
			t.Errorf("ParseTimeToSeconds(%q) error: %v", c.in, err)
			continue
		}
		if got != c.want {
			t.Errorf("ParseTimeToSeconds(%q) = %f, want %f", c.in, got, c.want)
		}
	}
}

func TestParseTimeToSecondsRejectsGarbage(t *testing.T) {
	if _, err := ParseTimeToSeconds("not-a-time"); err == nil {
		t.Error("expected parse error")
	}
}
