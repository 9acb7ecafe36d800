// Package pan computes the stereo-field pan coefficient for a channel role
// against a target output speaker configuration.
//
// The resolver is a pure constant lookup: no I/O, no state. Pan values live
// in [-2.0, +2.0]; magnitudes above 1.0 reach into the host's surround field.
// Wider target configurations place side and back roles further from center
// so the relative separation of the original mix survives re-collapsing onto
// a different speaker set. The per-configuration constants are a documented
// convention, not a psychoacoustic model.
package pan
