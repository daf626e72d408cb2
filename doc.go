// Package tablexport exports HTML table content or structured records to CSV
// and XLSX files, reconstructing merged cells (colspan/rowspan) into dense
// row/column matrices plus explicit merge regions.
//
// The core of the package is the grid walk: given any RowSource (an HTML
// table parsed with golang.org/x/net/html, or an in-memory table), Extract
// and ExtractWithMerges rebuild the logical grid, resolving rowspans that
// spill into later rows and colspans that widen a single cell, and derive
// rectangular merge regions in output coordinates, i.e. after hidden rows
// and columns have been dropped.
//
// Structured data is exported through a column-definition tree: nested
// columns become multi-row headers with merge regions, leaf columns map to
// record fields or expr-lang expressions, and record trees can be flattened
// depth-first with per-level indentation.
//
// Batch and chunked variants process rows in fixed-size slices and yield to
// a Scheduler between slices so large exports stay responsive, reporting
// progress through a ProgressSink.
package tablexport
