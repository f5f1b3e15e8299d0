// Package config loads, normalizes, and validates menumerge configuration data.
//
// It supplies repository defaults (the 0.4/0.4/0.2 signal weights, the 100 m
// geo gate, the quality checklist), expands user paths including tilde
// shortcuts, reads TOML files, and honours the MENUMERGE_DATA_DIR and
// MENUMERGE_LOG_LEVEL environment fallbacks.
//
// Always obtain settings through this package so the matching core receives
// validated weights and precedence rules.
package config
