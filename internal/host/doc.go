// Package host defines the placement interface the import pipeline hands
// finished clips to, plus a directory-backed implementation for standalone
// CLI use.
//
// A real timeline editor supplies its own Host; the pipeline only ever
// creates clips, assigns track slots, and applies pan coefficients through
// the interface.
package host
