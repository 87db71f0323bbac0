// Package config loads, validates, and normalizes ignite's TOML
// configuration. Configuration lives at ~/.config/ignite/config.toml by
// default, with an ignite.toml in the working directory as a project-local
// fallback.
package config
