// Package extract runs extraction jobs against the transcode collaborator
// with best-effort batch semantics.
//
// Every job gets a uniquely named temporary output path and an independent
// process invocation under its own time budget. One failing job never stops
// its siblings; the batch always yields exactly one outcome per job, in job
// order. Temporary files belong to the executor until Cleanup releases them.
package extract
