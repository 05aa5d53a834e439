// Package config loads, validates, and normalizes the nexus configuration.
//
// Configuration lives in a TOML file (default ~/.config/nexus/config.toml,
// falling back to ./nexus.toml). Load applies repository defaults first, so
// a missing file yields a fully usable configuration. All path fields are
// tilde-expanded and made absolute before validation.
package config
