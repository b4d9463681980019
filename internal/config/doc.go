// Package config loads, normalizes, and validates cratekeeper configuration.
//
// Configuration lives in a TOML file (default ~/.config/cratekeeper/config.toml,
// or cratekeeper.toml in the working directory). Load applies defaults for any
// missing values, expands ~ in paths, and rejects out-of-range vetting
// thresholds before anything touches the databases.
package config
