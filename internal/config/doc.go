// Package config loads, normalizes, and validates subocr configuration data.
//
// It supplies defaults, expands user paths (including tilde shortcuts), reads
// TOML files, and honours environment fallbacks such as TESSDATA_PREFIX. The
// Config type holds every knob the converter needs so the CLI can resolve
// settings in one pass before flags are layered on top.
package config
