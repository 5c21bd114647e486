// Package config loads, normalizes, and validates maqamat configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours the MAQAMAT_DATA_DIR and
// MAQAMAT_OUTPUT_DIR environment overrides. An empty data_dir or locale_dir
// selects the catalogs embedded in the binary.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
