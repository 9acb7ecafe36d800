// Package logging constructs the process-wide slog logger and provides
// typed attribute helpers so call sites stay terse.
//
// Two output formats are supported: a compact console format for interactive
// use and line-delimited JSON for machine consumption. Log output always goes
// to stderr so command output on stdout stays parseable; a log file can be
// added on top.
package logging
