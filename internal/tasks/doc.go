// Package tasks runs the longer playlist operations behind the CLI and TUI with progress reporting.
//
// # Operations
//
//  1. [Engine.PrefetchTitles] : resolve display titles for a set of video IDs
//     - Fans lookups out to a bounded worker pool
//     - Paces requests with a token-bucket limiter (golang.org/x/time/rate)
//     - Collects per-ID failures instead of aborting
//
//  2. [Engine.Export] : write one mode's list to disk
//     - Lists the mode through the catalog
//     - Optionally prefetches titles first
//     - Renders through package formatter
//
// # Progress Reporting
//
// Operations accept an optional channel of [ProgressUpdate]. Sends use select with default, so a
// slow or absent reader never stalls the work.
package tasks
