// Package config loads and merges lintgate configuration from multiple
// sources.
//
// Precedence (highest to lowest):
//  1. CLI flags
//  2. Environment variables (LINTGATE_FORMAT, LINTGATE_JOBS, LINTGATE_LOG_LEVEL, etc.)
//  3. Config file (.lintgate.yaml in the working directory, or --config)
//  4. Built-in defaults
//
// Use [Load] to obtain a validated [Config], [Init] to write a default config
// file, and [Set] to update a single key in a config file.
package config
