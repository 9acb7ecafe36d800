package ffmpeg

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"stemsplit/internal/services"
)

// Request describes one extraction: a source file, the audio stream to read
// (0-based among audio streams, matching ffmpeg's 0:a:N addressing), and how
// to shape the output.
type Request struct {
	Source     string
	AudioIndex int
	// Channel isolates a single source channel by 0-based position.
	// Negative means no channel isolation.
	Channel int
	// ForceMono collapses the stream to one channel. Ignored when Channel
	// isolation is requested, which is inherently mono.
	ForceMono bool
	Output    string
}

// Client invokes a specific ffmpeg binary.
type Client struct {
	Binary string
}

// NewClient returns a Client for the given binary, defaulting to "ffmpeg".
func NewClient(binary string) Client {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffmpeg"
	}
	return Client{Binary: binary}
}

// BuildArgs assembles the ffmpeg argument list for a request. Exposed so the
// argument shape can be tested without spawning a process.
func BuildArgs(req Request) []string {
	args := []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-i", req.Source,
		"-map", fmt.Sprintf("0:a:%d", req.AudioIndex),
		"-vn",
		"-sn",
		"-dn",
	}
	switch {
	case req.Channel >= 0:
		// The positional pan source c<N> works even when the container
		// carries no layout metadata.
		args = append(args, "-af", fmt.Sprintf("pan=mono|c0=c%d", req.Channel))
	case req.ForceMono:
		args = append(args, "-ac", "1")
	}
	args = append(args,
		"-c:a", "pcm_s16le",
		req.Output,
	)
	return args
}

// Extract runs ffmpeg for the given request, producing a WAV file at
// req.Output or returning the process failure with trimmed stderr attached.
func (c Client) Extract(ctx context.Context, req Request) error {
	if req.AudioIndex < 0 {
		return services.Wrap(services.ErrValidation, "ffmpeg", "extract",
			fmt.Sprintf("invalid audio stream index %d", req.AudioIndex), nil)
	}
	if strings.TrimSpace(req.Output) == "" {
		return services.Wrap(services.ErrValidation, "ffmpeg", "extract", "empty output path", nil)
	}
	cmd := exec.CommandContext(ctx, c.Binary, BuildArgs(req)...) //nolint:gosec
	if output, err := cmd.CombinedOutput(); err != nil {
		return services.Wrap(services.ErrExternalTool, "ffmpeg", "extract",
			strings.TrimSpace(string(output)), err)
	}
	return nil
}
