// Package config loads and validates the monitor's YAML configuration, with
// environment overrides and optional hot-reload via fsnotify.
package config
