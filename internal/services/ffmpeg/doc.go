// Package ffmpeg wraps the ffmpeg binary for single-clip audio extraction.
//
// Each Extract call remuxes one audio stream (optionally isolating a single
// source channel, optionally collapsing to mono) into a PCM WAV file at the
// requested output path. The binary's command-line surface is treated as a
// black box; this package only builds arguments and reports failures.
package ffmpeg
