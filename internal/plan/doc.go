// Package plan turns a stream/channel selection into a concrete list of
// extraction jobs, one per eventual output clip.
//
// Planning is a pure transformation: it never talks to the transcode
// collaborator, so every mode and edge case is unit-testable without
// spawning a process.
package plan
