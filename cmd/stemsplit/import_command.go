package main

import (
	"fmt"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"stemsplit/internal/catalog"
	"stemsplit/internal/config"
	"stemsplit/internal/deps"
	"stemsplit/internal/extract"
	"stemsplit/internal/history"
	"stemsplit/internal/host"
	"stemsplit/internal/importer"
	"stemsplit/internal/layout"
	"stemsplit/internal/logging"
	"stemsplit/internal/pan"
	"stemsplit/internal/plan"
	"stemsplit/internal/services/ffmpeg"
	"stemsplit/internal/services/ffprobe"
)

func newImportCommand(ctx *commandContext) *cobra.Command {
	var (
		streamFlag   int
		channelsFlag string
		downmixFlag  bool
		presetFlag   string
		speakersFlag string
		outputFlag   string
		withVideo    bool
		retainTemp   bool
		parallelFlag int
		timeoutFlag  time.Duration
		startFlag    float64
	)

	cmd := &cobra.Command{
		Use:   "import <media-file>",
		Short: "Extract audio channels into panned mono clips",
		Long: `Import probes the media file, selects one audio stream, and extracts its
channels into independent mono clips placed on consecutive track slots.
Multichannel streams split one clip per channel by default; --downmix collapses
the stream into a single mono clip instead. Mono sources always pass through
as a single centered clip.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			source, err := config.ExpandPath(args[0])
			if err != nil {
				return fmt.Errorf("resolve media path: %w", err)
			}

			opCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			lock := flock.New(filepath.Join(cfg.Paths.StagingDir, "stemsplit.lock"))
			locked, err := lock.TryLock()
			if err != nil {
				return fmt.Errorf("acquire import lock: %w", err)
			}
			if !locked {
				return fmt.Errorf("another import is already running against %s", cfg.Paths.StagingDir)
			}
			defer func() { _ = lock.Unlock() }()

			prober := ffprobe.NewClient(deps.Resolve(cfg.FFprobeBinary()))
			resolver := layout.NewResolver(logger)
			cat := catalog.New(prober, resolver, logger)

			streams, err := cat.Scan(opCtx, source)
			if err != nil {
				return err
			}
			if len(streams) == 0 {
				return fmt.Errorf("no audio streams found in %s", source)
			}

			selections, err := cat.SelectStream(streamFlag)
			if err != nil {
				return err
			}
			if err := applyChannelFilter(cat, selections, channelsFlag); err != nil {
				return err
			}

			stream, err := cat.SelectedStream()
			if err != nil {
				return err
			}

			mode := plan.ModeSplit
			if downmixFlag || stream.Channels <= 1 {
				mode = plan.ModeDownmix
			}

			presetName := strings.TrimSpace(presetFlag)
			if presetName == "" {
				presetName = cfg.Import.PanPreset
			}
			preset, ok := layout.ParseRole(presetName)
			if !ok {
				return fmt.Errorf("unknown pan preset %q", presetName)
			}

			speakersName := strings.TrimSpace(speakersFlag)
			if speakersName == "" {
				speakersName = cfg.Import.SpeakerConfig
			}
			speakers := pan.ParseSpeakerConfig(speakersName)

			timeout := timeoutFlag
			if timeout <= 0 {
				timeout = time.Duration(cfg.Import.TimeoutSeconds) * time.Second
			}
			parallel := parallelFlag
			if parallel <= 0 {
				parallel = cfg.Import.Parallelism
			}

			outputDir := strings.TrimSpace(outputFlag)
			if outputDir == "" {
				outputDir = cfg.Paths.OutputDir
			} else if outputDir, err = config.ExpandPath(outputDir); err != nil {
				return fmt.Errorf("resolve output directory: %w", err)
			}

			transcoder := ffmpeg.NewClient(deps.Resolve(cfg.FFmpegBinary()))
			executor := extract.NewExecutor(transcoder, cfg.Paths.StagingDir, logger,
				extract.WithTimeout(timeout),
				extract.WithParallelism(parallel))

			placer, err := host.NewDirHost(outputDir, logger)
			if err != nil {
				return err
			}

			var ledger *history.Store
			if path := cfg.HistoryPath(); path != "" {
				ledger, err = history.Open(path)
				if err != nil {
					logger.Warn("history ledger unavailable", logging.Error(err))
					ledger = nil
				} else {
					defer ledger.Close()
				}
			}

			start := startFlag
			if !cmd.Flags().Changed("start") {
				start = cfg.Import.StartPosition
			}

			coordinator := importer.NewCoordinator(plan.NewPlanner(resolver, logger), executor, placer, ledger, logger)

			result, err := coordinator.Import(opCtx, cat, plan.Request{
				Stream:     stream,
				Selections: cat.Selections(),
				Mode:       mode,
				PanPreset:  preset,
				Speakers:   speakers,
				Retain:     retainTemp || cfg.Import.RetainTemp,
			}, importer.Options{
				WithVideo:     withVideo,
				StartPosition: start,
			})
			if err != nil {
				return err
			}

			if _, err := placer.WriteManifest(); err != nil {
				return err
			}

			printImportSummary(cmd, result, outputDir)
			if result.Status == importer.StatusFailed {
				return fmt.Errorf("import failed: no clips were placed")
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&streamFlag, "stream", 0, "Audio stream to import (0-based audio index)")
	cmd.Flags().StringVar(&channelsFlag, "channels", "all", "Channels to extract, e.g. \"1,3,4\" (1-based) or \"all\"")
	cmd.Flags().BoolVar(&downmixFlag, "downmix", false, "Collapse the stream into a single mono clip")
	cmd.Flags().StringVar(&presetFlag, "pan-preset", "", "Role whose pan applies to a downmix clip (default from config)")
	cmd.Flags().StringVar(&speakersFlag, "speakers", "", "Target speaker configuration: mono, stereo, quad, surround51, surround71")
	cmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Output directory (default from config)")
	cmd.Flags().BoolVar(&withVideo, "with-video", false, "Also place the container's video stream")
	cmd.Flags().BoolVar(&retainTemp, "retain-temp", false, "Keep extracted temporary files")
	cmd.Flags().IntVar(&parallelFlag, "parallel", 0, "Concurrent extraction processes (default from config)")
	cmd.Flags().DurationVar(&timeoutFlag, "timeout", 0, "Per-channel extraction timeout (default from config)")
	cmd.Flags().Float64Var(&startFlag, "start", 0, "Timeline start position for placed clips")
	return cmd
}

// applyChannelFilter narrows the catalog selection to the requested 1-based
// channel list. "all" and the empty string keep every channel included.
func applyChannelFilter(cat *catalog.Catalog, selections []catalog.ChannelSelection, spec string) error {
	spec = strings.TrimSpace(strings.ToLower(spec))
	if spec == "" || spec == "all" {
		return nil
	}

	wanted := make(map[int]bool)
	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		number, err := strconv.Atoi(part)
		if err != nil || number < 1 {
			return fmt.Errorf("invalid channel %q: expected a 1-based channel number", part)
		}
		if number > len(selections) {
			return fmt.Errorf("channel %d out of range (stream has %d channels)", number, len(selections))
		}
		wanted[number-1] = true
	}
	if len(wanted) == 0 {
		return fmt.Errorf("no channels specified")
	}

	for _, sel := range selections {
		if err := cat.SetIncluded(sel.Ordinal, wanted[sel.Ordinal]); err != nil {
			return err
		}
	}
	return nil
}

func printImportSummary(cmd *cobra.Command, result importer.Result, outputDir string) {
	out := cmd.OutOrStdout()

	if len(result.Clips) > 0 {
		rows := make([][]string, 0, len(result.Clips))
		for _, clip := range result.Clips {
			rows = append(rows, []string{
				strconv.Itoa(clip.Track),
				filepath.Base(clip.Path),
			})
		}
		fmt.Fprintln(out, renderTable(
			[]string{"Track", "Clip"},
			rows,
			[]columnAlignment{alignRight, alignLeft},
		))
	}
	if result.VideoClip != nil {
		fmt.Fprintf(out, "Video placed on track %d\n", result.VideoClip.Track)
	}

	if len(result.Failures) > 0 {
		rows := make([][]string, 0, len(result.Failures))
		for _, failure := range result.Failures {
			detail := ""
			if failure.Err != nil {
				detail = failure.Err.Error()
			}
			rows = append(rows, []string{
				string(failure.Role),
				string(failure.Reason),
				detail,
			})
		}
		fmt.Fprintln(out, renderTable(
			[]string{"Channel", "Reason", "Detail"},
			rows,
			[]columnAlignment{alignLeft, alignLeft, alignLeft},
		))
	}

	switch result.Status {
	case importer.StatusSuccess:
		fmt.Fprintf(out, "Imported %d clip(s) to %s\n", len(result.Clips), outputDir)
	case importer.StatusPartial:
		fmt.Fprintf(out, "Imported %d clip(s) to %s; %d channel(s) failed\n",
			len(result.Clips), outputDir, len(result.Failures))
	}
}
