// Package config loads and validates the shared YAML configuration.
//
// A single file configures all three binaries (crawler, provider,
// webserver). Values support ${VAR} environment expansion so secrets can
// stay out of the file itself.
package config
