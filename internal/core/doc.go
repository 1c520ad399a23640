// Package core turns uploaded tabular files into structural reports.
//
// It is independent of any UI or transport layer and is used by both the web
// handlers and the command line.
//
// # Pipeline
//
// Each file goes through two steps:
//
//  1. The loader reads the upload into a table (see package loader).
//  2. The [Analyzer] derives a [FileReport]: row count, per-column type,
//     distinct and missing counts, a few example values and the first rows.
//
// [Service.AnalyzeBatch] runs the pipeline over several files in upload
// order. Every file gets a [FileResult]; a failure is logged and recorded
// for that file only.
//
// # Concurrency
//
// One batch is processed sequentially on the calling goroutine. The
// [BatchLimiter] caps how many batches run at the same time and lets the
// server wait for them on shutdown.
//
// # Error Handling
//
// Technical errors are mapped to user-friendly messages using [MapError].
// Each category has a code for support reference:
//
//   - FILE001-FILE007: file errors (format, parsing, encoding, size)
//   - UPL002-UPL005: batch errors (busy, cancelled, timed out)
//   - RATE001: rate limiting
package core
