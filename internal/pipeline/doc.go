// Package pipeline turns a list of inputs into converted .docx files.
//
// [Resolve] expands files and directories into an ordered list of PDFs.
// [Batch.ConvertOne] converts one file. [Batch.Process] runs many files on a
// bounded pool, enforces per-file timeouts and aggregates a [BatchResult]
// on the calling goroutine; [Batch.Stream] offers the same run as a channel
// of events. [Run] wires these to a Config for the CLI, and [Scan] is its
// dry-run counterpart.
package pipeline
