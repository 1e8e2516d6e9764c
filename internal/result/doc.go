// Package result holds the issues reported by analysis tools.
//
// A [Store] maps file paths to line numbers to the ordered list of [Issue]
// values reported there. The live store is unordered; [Store.Snapshot]
// imposes the deterministic ordering (files lexicographically, lines
// numerically) and then hands the sorted [Snapshot] to the attached [Filter].
//
// Each tool adapter fills its own store. The analyser merges those stores
// into one master store with [Store.MergeWith] and attaches a filter (for
// example a diff scope) before the snapshot is rendered.
package result
