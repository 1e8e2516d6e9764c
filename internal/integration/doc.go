// Package integration adapts external static-analysis tools to the issue
// store.
//
// Each [Tool] knows how to build its command line and how to read the XML
// report it writes. A [Runner] executes a tool against a set of targets and
// returns the parsed issues in a private [result.Store]. Exit codes outside a
// tool's accepted set surface as [*ExecError].
package integration
