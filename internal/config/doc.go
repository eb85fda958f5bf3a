// Package config loads enrollmate settings.
//
// Settings are layered: built-in defaults, then an optional YAML or JSON
// file, then ENROLLMATE_* environment variables. Command-line flags are
// applied last by the cli package.
package config
