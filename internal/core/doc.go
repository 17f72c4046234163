// Package core provides the data-integrity layer for utility-bill CSV
// review: validation rules, the editable batch, typed sorting, and
// pagination. It is independent of any UI or transport layer and is shared
// by the web handlers, the HTTP client, and tests.
//
// # Records and issues
//
// A [Record] is one bill keyed by header name, every value kept as raw
// text. Validation never mutates records; it reports an [Issue] per
// violation, addressed by the row's position in the source file (header
// row is row 1, first data row is row 2).
//
// # Batch
//
// [Batch] is an immutable value: edits, row adds, and row removals return
// a new Batch with issues recomputed, so callers can hold earlier states
// for undo or comparison. A batch submits through the [Uploader] interface
// once [Batch.CanSubmit] reports it clean.
//
// # Sorting
//
// [SortRecords] sorts typed columns stably: numbers and dates parse from
// the raw text, records missing a sortable value rank last in either
// direction, and text compares case-insensitively using language-aware
// collation.
package core
