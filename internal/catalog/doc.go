// Package catalog holds the probed audio-stream metadata for one media file
// and the user's stream/channel selection state.
//
// Both mutating operations, Scan and SelectStream, fully replace the state
// they own; nothing is merged across rescans or stream switches. A single
// operation-in-flight flag guards against re-entrant scans and imports on
// the same catalog, which removes the need for finer locking.
package catalog
