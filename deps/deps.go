// Package deps checks the external binaries the tool shells out to.
package deps

import (
	"fmt"
	"os/exec"
)

const (
	MpvInstallURL    = "https://mpv.io/installation/"
	FfmpegInstallURL = "https://ffmpeg.org/download.html"
)

// DependencyError contains information about a missing dependency
type DependencyError struct {
	Name       string
	InstallURL string
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("%s not found. Install from: %s", e.Name, e.InstallURL)
}

// CheckMpv checks if mpv is installed and available in PATH
func CheckMpv() error {
	_, err := exec.LookPath("mpv")
	if err != nil {
		return &DependencyError{
			Name:       "mpv",
			InstallURL: MpvInstallURL,
		}
	}
	return nil
}

// CheckFfprobe checks if ffprobe (used to resolve media durations) is
// installed and available in PATH
func CheckFfprobe() error {
	_, err := exec.LookPath("ffprobe")
	if err != nil {
		return &DependencyError{
			Name:       "ffprobe",
			InstallURL: FfmpegInstallURL,
		}
	}
	return nil
}

// CheckAll checks all dependencies and returns a slice of errors for missing ones
func CheckAll() []error {
	var errors []error

	if err := CheckMpv(); err != nil {
		errors = append(errors, err)
	}

	if err := CheckFfprobe(); err != nil {
		errors = append(errors, err)
	}

	return errors
}
