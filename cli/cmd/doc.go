// Package cmd implements the wgslpp subcommands for rendering, listing,
// checking, and formatting shader templates in a workspace.
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path to
	// the CLI configuration file (without extension).
	ConfigIdentifier = "config"
)
