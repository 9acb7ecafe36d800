// Package services defines the error taxonomy shared by the external tool
// clients and the components that consume them.
//
// Errors are tagged with sentinel markers so callers can classify failures
// (tool missing, timed out, bad selection, process failed) without parsing
// subprocess stderr. Subpackages wrap the ffprobe and ffmpeg binaries.
package services
