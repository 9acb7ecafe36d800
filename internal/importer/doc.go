// Package importer sequences one import operation end to end: plan the
// extraction jobs, run them, place the resulting clips with the host, and
// classify the overall outcome.
//
// Placement order follows job order onto sequential track slots, so repeated
// runs with identical input produce identical layouts. Temporary files are
// released on every exit path; a planning failure runs zero jobs, a partial
// batch places what succeeded.
package importer
