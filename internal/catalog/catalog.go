package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"stemsplit/internal/layout"
	"stemsplit/internal/logging"
	"stemsplit/internal/services/ffprobe"
)

// Prober abstracts the probing collaborator so tests can inject fakes.
type Prober interface {
	Inspect(ctx context.Context, path string) (ffprobe.Result, error)
}

// StreamDescriptor captures the probed metadata of one audio stream.
// Immutable once created.
type StreamDescriptor struct {
	// StreamIndex is the absolute index as reported by the container.
	StreamIndex int
	// AudioIndex is the 0-based position among audio streams only; the
	// transcode collaborator addresses streams by this index.
	AudioIndex int
	Codec      string
	SampleRate int
	Channels   int
	// LayoutID is the channel layout identifier as reported, possibly
	// empty or unrecognized.
	LayoutID string
	Language string
	Title    string
}

// ChannelSelection marks one channel of the selected stream for extraction.
type ChannelSelection struct {
	Role layout.ChannelRole
	// Ordinal is the 0-based channel position within the stream.
	Ordinal  int
	Included bool
}

// ProbeError reports that the probing collaborator could not be invoked or
// returned malformed output. Distinct from a file with no audio streams,
// which is an empty, successful scan.
type ProbeError struct {
	Path string
	Err  error
}

func (e *ProbeError) Error() string {
	return fmt.Sprintf("probe %s: %v", e.Path, e.Err)
}

func (e *ProbeError) Unwrap() error { return e.Err }

// ErrOperationInFlight is returned when a scan or import is attempted while
// another operation holds the catalog.
var ErrOperationInFlight = errors.New("catalog: another operation is in flight")

// ErrNoStreamSelected is returned when selection state is required but no
// stream has been chosen yet.
var ErrNoStreamSelected = errors.New("catalog: no stream selected")

// Catalog owns the scan results and selection state for one media file.
type Catalog struct {
	prober   Prober
	resolver *layout.Resolver
	log      *slog.Logger

	mu        sync.Mutex
	busy      bool
	mediaPath string
	streams   []StreamDescriptor
	hasVideo  bool
	selected  int
	selection []ChannelSelection
}

// New constructs an empty catalog around the given prober.
func New(prober Prober, resolver *layout.Resolver, logger *slog.Logger) *Catalog {
	return &Catalog{
		prober:   prober,
		resolver: resolver,
		log:      logging.NewComponentLogger(logger, "catalog"),
		selected: -1,
	}
}

// BeginOperation claims the catalog for one logical operation. The returned
// release function must be called when the operation finishes. A second
// claim before release fails with ErrOperationInFlight.
func (c *Catalog) BeginOperation() (func(), error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.busy {
		return nil, ErrOperationInFlight
	}
	c.busy = true
	return func() {
		c.mu.Lock()
		c.busy = false
		c.mu.Unlock()
	}, nil
}

// Scan probes the media file and replaces the catalog contents with the
// discovered audio streams. Prior state, including any channel selection,
// is discarded whether or not the probe succeeds; a failed probe leaves the
// catalog empty so stale streams can never be imported.
func (c *Catalog) Scan(ctx context.Context, mediaPath string) ([]StreamDescriptor, error) {
	release, err := c.BeginOperation()
	if err != nil {
		return nil, err
	}
	defer release()

	c.mu.Lock()
	c.mediaPath = mediaPath
	c.streams = nil
	c.hasVideo = false
	c.selected = -1
	c.selection = nil
	c.mu.Unlock()

	result, err := c.prober.Inspect(ctx, mediaPath)
	if err != nil {
		return nil, &ProbeError{Path: mediaPath, Err: err}
	}

	descriptors := buildDescriptors(result)
	c.mu.Lock()
	c.streams = descriptors
	c.hasVideo = result.HasVideo()
	c.mu.Unlock()

	c.log.Info("scan complete",
		logging.String("path", mediaPath),
		logging.Int("audio_streams", len(descriptors)),
		logging.Bool("video", result.HasVideo()))
	return append([]StreamDescriptor(nil), descriptors...), nil
}

func buildDescriptors(result ffprobe.Result) []StreamDescriptor {
	audio := result.AudioStreams()
	descriptors := make([]StreamDescriptor, 0, len(audio))
	for i, stream := range audio {
		descriptors = append(descriptors, StreamDescriptor{
			StreamIndex: stream.Index,
			AudioIndex:  i,
			Codec:       stream.CodecName,
			SampleRate:  parseSampleRate(stream.SampleRate),
			Channels:    stream.Channels,
			LayoutID:    strings.TrimSpace(stream.ChannelLayout),
			Language:    strings.ToLower(stream.Tag("language", "LANGUAGE", "Language", "language_ietf", "lang", "LANG")),
			Title:       stream.Tag("title", "TITLE", "handler_name", "HANDLER_NAME"),
		})
	}
	return descriptors
}

func parseSampleRate(value string) int {
	cleaned := strings.TrimSpace(value)
	if cleaned == "" {
		return 0
	}
	rate, err := strconv.Atoi(cleaned)
	if err != nil || rate < 0 {
		return 0
	}
	return rate
}

// SelectStream derives a fresh channel-selection list for the stream at the
// given audio index. The previous list is always fully replaced, even when
// re-selecting the same stream.
func (c *Catalog) SelectStream(index int) ([]ChannelSelection, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if index < 0 || index >= len(c.streams) {
		return nil, fmt.Errorf("catalog: stream index %d out of range (have %d audio streams)", index, len(c.streams))
	}

	stream := c.streams[index]
	roles := c.resolver.ResolveRoles(stream.LayoutID, stream.Channels)
	selection := make([]ChannelSelection, len(roles))
	for i, role := range roles {
		selection[i] = ChannelSelection{Role: role, Ordinal: i, Included: true}
	}

	c.selected = index
	c.selection = selection
	return append([]ChannelSelection(nil), selection...), nil
}

// SetIncluded toggles one channel of the current selection.
func (c *Catalog) SetIncluded(ordinal int, included bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.selected < 0 {
		return ErrNoStreamSelected
	}
	if ordinal < 0 || ordinal >= len(c.selection) {
		return fmt.Errorf("catalog: channel ordinal %d out of range (have %d channels)", ordinal, len(c.selection))
	}
	c.selection[ordinal].Included = included
	return nil
}

// MediaPath returns the path of the last scanned file.
func (c *Catalog) MediaPath() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mediaPath
}

// Streams returns the scanned audio stream descriptors in probe order.
func (c *Catalog) Streams() []StreamDescriptor {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]StreamDescriptor(nil), c.streams...)
}

// HasVideo reports whether the scanned container carries a video stream.
func (c *Catalog) HasVideo() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hasVideo
}

// SelectedStream returns the currently selected descriptor.
func (c *Catalog) SelectedStream() (StreamDescriptor, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.selected < 0 || c.selected >= len(c.streams) {
		return StreamDescriptor{}, ErrNoStreamSelected
	}
	return c.streams[c.selected], nil
}

// Selections returns a copy of the current channel-selection list.
func (c *Catalog) Selections() []ChannelSelection {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]ChannelSelection(nil), c.selection...)
}
