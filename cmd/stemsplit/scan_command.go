package main

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"stemsplit/internal/catalog"
	"stemsplit/internal/config"
	"stemsplit/internal/deps"
	"stemsplit/internal/layout"
	"stemsplit/internal/services/ffprobe"
)

func newScanCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "scan <media-file>",
		Short: "Probe a media file and list its audio streams",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			path, err := config.ExpandPath(args[0])
			if err != nil {
				return fmt.Errorf("resolve media path: %w", err)
			}

			prober := ffprobe.NewClient(deps.Resolve(cfg.FFprobeBinary()))
			resolver := layout.NewResolver(logger)
			cat := catalog.New(prober, resolver, logger)

			streams, err := cat.Scan(cmd.Context(), path)
			if err != nil {
				return err
			}

			if jsonOutput {
				return writeScanJSON(cmd, path, streams, cat.HasVideo())
			}

			out := cmd.OutOrStdout()
			if len(streams) == 0 {
				fmt.Fprintf(out, "No audio streams found in %s\n", path)
				return nil
			}

			rows := make([][]string, 0, len(streams))
			for _, stream := range streams {
				layoutID := stream.LayoutID
				if layoutID == "" {
					layoutID = "(unknown)"
				}
				rows = append(rows, []string{
					strconv.Itoa(stream.AudioIndex),
					strconv.Itoa(stream.StreamIndex),
					stream.Codec,
					formatSampleRate(stream.SampleRate),
					strconv.Itoa(stream.Channels),
					layoutID,
					stream.Language,
					stream.Title,
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"#", "Stream", "Codec", "Rate", "Ch", "Layout", "Language", "Title"},
				rows,
				[]columnAlignment{alignRight, alignRight, alignLeft, alignRight, alignRight, alignLeft, alignLeft, alignLeft},
			))
			fmt.Fprintf(out, "Video stream: %s\n", yesNo(cat.HasVideo()))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit scan results as JSON")
	return cmd
}

func writeScanJSON(cmd *cobra.Command, path string, streams []catalog.StreamDescriptor, hasVideo bool) error {
	type streamView struct {
		AudioIndex  int    `json:"audio_index"`
		StreamIndex int    `json:"stream_index"`
		Codec       string `json:"codec"`
		SampleRate  int    `json:"sample_rate"`
		Channels    int    `json:"channels"`
		Layout      string `json:"layout,omitempty"`
		Language    string `json:"language,omitempty"`
		Title       string `json:"title,omitempty"`
	}
	payload := struct {
		Path     string       `json:"path"`
		HasVideo bool         `json:"has_video"`
		Streams  []streamView `json:"streams"`
	}{Path: path, HasVideo: hasVideo, Streams: make([]streamView, 0, len(streams))}

	for _, stream := range streams {
		payload.Streams = append(payload.Streams, streamView{
			AudioIndex:  stream.AudioIndex,
			StreamIndex: stream.StreamIndex,
			Codec:       stream.Codec,
			SampleRate:  stream.SampleRate,
			Channels:    stream.Channels,
			Layout:      stream.LayoutID,
			Language:    stream.Language,
			Title:       stream.Title,
		})
	}

	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(payload)
}

func formatSampleRate(rate int) string {
	if rate <= 0 {
		return "-"
	}
	return strconv.Itoa(rate)
}
