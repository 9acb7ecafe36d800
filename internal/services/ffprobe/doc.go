// Package ffprobe provides a typed wrapper around ffprobe JSON output.
//
// The Client executes the configured ffprobe binary against a media path and
// decodes the stream list. Anything the prober reports is passed through as
// data; interpretation of layouts and roles happens in internal/layout and
// internal/catalog.
package ffprobe
