package media

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	ffmpeg "github.com/u2takey/ffmpeg-go"
	"go.uber.org/zap"

	"github.com/user/caption-studio-cli/timeline"
)

// ErrorKind classifies resolution failures for the caller's retry logic.
type ErrorKind string

const (
	// Unresolvable means the source cannot be resolved at all (missing
	// file, undecodable container).
	Unresolvable ErrorKind = "unresolvable"
	// Offline means the source exists but is currently unreachable.
	Offline ErrorKind = "offline"
	// Transient means a retry may succeed.
	Transient ErrorKind = "transient"
)

// ResolveError wraps a resolution failure with its kind.
type ResolveError struct {
	Kind ErrorKind
	Path string
	Err  error
}

func (e *ResolveError) Error() string {
	return fmt.Sprintf("media: resolve %s: %s: %v", e.Path, e.Kind, e.Err)
}

func (e *ResolveError) Unwrap() error { return e.Err }

// Probe is the resolved description of a media file.
type Probe struct {
	StreamURL   string
	DurationSec float64
	Kind        timeline.Kind
}

// probeOutput is the JSON shape ffprobe emits for the fields we read.
type probeOutput struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
	Streams []struct {
		CodecType string `json:"codec_type"`
	} `json:"streams"`
}

// Resolver turns media source references into playable handles with
// probed durations, using ffprobe.
type Resolver struct {
	log *zap.Logger
}

// NewResolver creates a resolver.
func NewResolver(log *zap.Logger) *Resolver {
	if log == nil {
		log = zap.NewNop()
	}
	return &Resolver{log: log}
}

// Resolve probes a local media path. The returned error, if any, is a
// *ResolveError carrying the failure kind.
func (r *Resolver) Resolve(ctx context.Context, path string) (*Probe, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, &ResolveError{Kind: Unresolvable, Path: path, Err: err}
	}
	if _, err := os.Stat(abs); err != nil {
		if os.IsNotExist(err) {
			return nil, &ResolveError{Kind: Unresolvable, Path: abs, Err: err}
		}
		return nil, &ResolveError{Kind: Offline, Path: abs, Err: err}
	}
	if err := ctx.Err(); err != nil {
		return nil, &ResolveError{Kind: Transient, Path: abs, Err: err}
	}

	raw, err := ffmpeg.Probe(abs)
	if err != nil {
		return nil, &ResolveError{Kind: Transient, Path: abs, Err: err}
	}
	probe, err := parseProbe(abs, raw)
	if err != nil {
		return nil, err
	}
	r.log.Debug("media resolved",
		zap.String("path", abs),
		zap.Float64("duration", probe.DurationSec),
		zap.String("kind", string(probe.Kind)))
	return probe, nil
}

// parseProbe extracts duration and media kind from raw ffprobe JSON.
func parseProbe(path, raw string) (*Probe, error) {
	var out probeOutput
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, &ResolveError{Kind: Unresolvable, Path: path, Err: err}
	}
	dur, err := strconv.ParseFloat(out.Format.Duration, 64)
	if err != nil || dur <= 0 {
		return nil, &ResolveError{Kind: Unresolvable, Path: path,
			Err: fmt.Errorf("no usable duration in probe: %q", out.Format.Duration)}
	}

	kind := timeline.KindAudio
	for _, s := range out.Streams {
		if s.CodecType == "video" {
			kind = timeline.KindVideo
			break
		}
	}
	return &Probe{StreamURL: path, DurationSec: dur, Kind: kind}, nil
}
