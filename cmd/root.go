package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/user/caption-studio-cli/caption"
	"github.com/user/caption-studio-cli/deps"
	"github.com/user/caption-studio-cli/media"
	"github.com/user/caption-studio-cli/pkg/logging"
	"github.com/user/caption-studio-cli/playback"
	"github.com/user/caption-studio-cli/store"
	"github.com/user/caption-studio-cli/timeline"
	"github.com/user/caption-studio-cli/tui"
)

var Version = "0.1.0"

var (
	flagVerbose bool
	flagDBPath  string
	flagSocket0 string
	flagSocket1 string
)

var rootCmd = &cobra.Command{
	Use:   "caption-studio-cli",
	Short: "A terminal caption editor with synchronized playback",
	Long: `caption-studio-cli is a terminal tool for authoring captions against
video and audio files, with mpv-backed synchronized playback.

Features:
  - Compose media files onto a trimmable clip timeline
  - Play, scrub, and seek with gapless dual-player swapping
  - Add, retime, and edit caption segments against the playhead
  - Sessions, clips, and captions persist in SQLite`,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("caption-studio-cli version %s\n", Version)
	},
}

var openCmd = &cobra.Command{
	Use:   "open <media-file> [more-files...]",
	Short: "Open media files in the caption editor",
	Long: `Open one or more media files in the caption editor. Files are probed
with ffprobe, placed on the timeline in order, and played through two
background mpv instances. Captions are authored against the first file.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runOpen,
}

func runOpen(cmd *cobra.Command, args []string) error {
	log := logging.New(flagVerbose)
	defer func() { _ = log.Sync() }()

	if err := deps.CheckMpv(); err != nil {
		return err
	}
	if err := deps.CheckFfprobe(); err != nil {
		return err
	}

	dbPath := flagDBPath
	if dbPath == "" {
		var err error
		dbPath, err = store.DefaultPath()
		if err != nil {
			return fmt.Errorf("failed to locate data directory: %w", err)
		}
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer st.Close()

	// Probe every file up front. A file that cannot be probed is a hard
	// error; partial sessions are confusing.
	resolver := media.NewResolver(log)
	sources := make(map[string]timeline.MediaSource)
	var items []timeline.NewClip
	var firstProbe *media.Probe
	var firstPath string
	for _, arg := range args {
		abs, err := filepath.Abs(arg)
		if err != nil {
			return fmt.Errorf("failed to resolve path %s: %w", arg, err)
		}
		probe, err := resolver.Resolve(cmd.Context(), abs)
		if err != nil {
			return fmt.Errorf("failed to probe %s: %w", arg, err)
		}
		dur := probe.DurationSec
		url := probe.StreamURL
		sources[abs] = timeline.MediaSource{
			ID:              abs,
			Kind:            probe.Kind,
			DurationSec:     &dur,
			ResolutionState: timeline.ResolutionReady,
			StreamURL:       &url,
		}
		items = append(items, timeline.NewClip{MediaSourceID: abs, BaseDurationSec: probe.DurationSec})
		if firstProbe == nil {
			firstProbe = probe
			firstPath = abs
		}
	}

	session, err := st.EnsureSession(firstPath, firstProbe.DurationSec)
	if err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}

	tl := timeline.New()
	records, err := st.SelectClips(session.ID)
	if err != nil {
		log.Warn("load clips", zap.Error(err))
	}
	if len(records) > 0 {
		clips := make([]timeline.Clip, 0, len(records))
		for _, r := range records {
			// Skip clips whose source was not opened this run.
			if _, ok := sources[r.MediaSourceID]; !ok {
				continue
			}
			clips = append(clips, timeline.Clip{
				ID:              r.ID,
				MediaSourceID:   r.MediaSourceID,
				StartSec:        r.StartSec,
				BaseDurationSec: r.BaseDurationSec,
				TrimStartSec:    r.TrimStartSec,
				TrimEndSec:      r.TrimEndSec,
			})
		}
		tl.Restore(clips)
	}

	// Files not covered by the restored arrangement are appended at the end.
	placed := make(map[string]bool)
	for _, c := range tl.Clips() {
		placed[c.MediaSourceID] = true
	}
	var fresh []timeline.NewClip
	for _, item := range items {
		if !placed[item.MediaSourceID] {
			fresh = append(fresh, item)
		}
	}
	if len(fresh) > 0 {
		tl.AddClips(fresh)
	}

	fmt.Println("Starting playback slots...")
	proc0, client0, err := media.LaunchSlot(flagSocket0)
	if err != nil {
		return fmt.Errorf("failed to launch playback slot: %w", err)
	}
	defer func() {
		_ = client0.Close()
		if proc0.Process != nil {
			_ = proc0.Process.Kill()
		}
	}()
	proc1, client1, err := media.LaunchSlot(flagSocket1)
	if err != nil {
		return fmt.Errorf("failed to launch playback slot: %w", err)
	}
	defer func() {
		_ = client1.Close()
		if proc1.Process != nil {
			_ = proc1.Process.Kill()
		}
	}()

	clock := playback.SystemClock()
	buffers := playback.NewBuffers(media.NewPresenter(client0), media.NewPresenter(client1), clock, log)
	notices := tui.NewNoticeSink()
	lookup := func(id string) (timeline.MediaSource, bool) {
		src, ok := sources[id]
		return src, ok
	}
	sched := playback.NewScheduler(tl, buffers, lookup, clock, log, notices)
	sched.SetFallbackDuration(firstProbe.DurationSec)

	track := caption.NewTrack(firstPath, firstProbe.DurationSec)
	caps, err := st.SelectCaptions(firstPath)
	if err != nil {
		log.Warn("load captions", zap.Error(err))
	} else if len(caps) > 0 {
		segs := make([]caption.Segment, 0, len(caps))
		for _, c := range caps {
			segs = append(segs, caption.Segment{ID: c.ID, Start: c.StartSec, End: c.EndSec, Text: c.Text})
		}
		track.Restore(segs)
	}

	outbox := caption.NewOutbox(st, log, notices)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	outbox.Start(ctx)

	// Resume where the last session left off.
	if session.PositionSec > 0 {
		sched.Seek(session.PositionSec)
	}

	return tui.Run(tui.App{
		Log:       log,
		Store:     st,
		Session:   session,
		Timeline:  tl,
		Scheduler: sched,
		Buffers:   buffers,
		Track:     track,
		Outbox:    outbox,
		Notices:   notices,
	})
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check system dependencies",
	Long:  `Check that all required system dependencies (mpv, ffprobe) are installed and available.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("Checking dependencies...")
		fmt.Println()

		allGood := true

		if err := deps.CheckMpv(); err != nil {
			fmt.Println("✗ mpv: NOT FOUND")
			fmt.Printf("  Install from: %s\n", deps.MpvInstallURL)
			allGood = false
		} else {
			fmt.Println("✓ mpv: OK")
		}

		if err := deps.CheckFfprobe(); err != nil {
			fmt.Println("✗ ffprobe: NOT FOUND")
			fmt.Printf("  Install from: %s\n", deps.FfmpegInstallURL)
			allGood = false
		} else {
			fmt.Println("✓ ffprobe: OK")
		}

		fmt.Println()
		if allGood {
			fmt.Println("All dependencies are installed!")
		} else {
			fmt.Println("Some dependencies are missing. Please install them to use all features.")
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")
	openCmd.Flags().StringVar(&flagDBPath, "db", "", "path to the SQLite database (default: user data directory)")
	openCmd.Flags().StringVar(&flagSocket0, "socket0", media.Slot0SocketPath, "IPC socket path for the first playback slot")
	openCmd.Flags().StringVar(&flagSocket1, "socket1", media.Slot1SocketPath, "IPC socket path for the second playback slot")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(openCmd)
	rootCmd.AddCommand(doctorCmd)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
