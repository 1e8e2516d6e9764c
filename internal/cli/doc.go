// Package cli wires together the Cobra command tree for the lintgate binary.
//
// It defines the root command and its subcommands (analyze, tools, formats,
// config, hook, version), loads configuration, resolves the analysis scope,
// runs the analyser and maps the outcome to deterministic exit codes for CI
// gating.
package cli
