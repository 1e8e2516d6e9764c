// Package diff turns a code change into per-file sets of added lines and
// restricts issue snapshots to those lines.
//
// A [Model] is built once, either from unified diff text with [Parse] or
// from two versions of one file with [FromContents], and is immutable
// afterwards. [NewFilter] wraps a model as a result.Filter: files without
// added lines are dropped, and only issues on added lines survive.
//
// Diff paths are relative to the repository root. The filter joins them to
// the root, so issue paths must be absolute or root-relative. Renamed files
// are tracked by their new path only.
package diff
