// Package config loads, normalizes, and validates ElicitCam configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours the credential environment
// fallbacks OPENAI_API_KEY, AZURE_OPENAI_API_KEY, and AZURE_OPENAI_ENDPOINT.
// The Config type centralizes every knob the CLI needs: corpus and output
// directories, model settings, sampling, journaling, and log output.
//
// Always obtain settings through this package so downstream code receives
// expanded paths and a validated credential scheme.
package config
