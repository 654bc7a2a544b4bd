// Package config loads application settings from environment variables
// prefixed with LIBRARY_ and an optional config.yaml, and validates them
// before any component is built.
package config
