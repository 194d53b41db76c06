// Package config handles configuration management for fanout.
// It layers the embedded defaults, an optional TOML file, FANOUT_*
// environment variables and command-line overrides, in that order.
package config
