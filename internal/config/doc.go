// Package config loads, normalizes, and validates morph configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// MORPH_MATRIX_TOKEN. The Config type centralizes every knob the daemon and
// CLI need: temp and log directories, the upload size limit, worker count,
// external tool binaries, the Matrix account, and the optional history and
// notification integrations.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
