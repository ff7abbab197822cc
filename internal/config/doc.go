// Package config loads, normalizes, and validates mchsplit configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours the MCHSPLIT_SOURCE environment
// fallback. The Config type centralizes every knob the CLI and the splitter
// need so source, output, concurrency, and logging settings are resolved in
// one pass.
//
// Always obtain settings through this package so downstream code receives
// absolute paths, canonical log formats, and clear validation errors.
package config
