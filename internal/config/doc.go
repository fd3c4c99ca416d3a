// Package config loads mediasort settings from an optional TOML file.
//
// Values resolve in three layers: built-in defaults, then the config file,
// then command-line flags applied by the caller before Finalize. The result
// is normalized (paths expanded to absolute form, enums lowercased) and
// validated once, then passed down as an immutable value.
package config
