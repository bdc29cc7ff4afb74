// Package config loads and validates the YAML service configuration and
// can watch the file for changes so the server rebuilds its predictor
// without a restart.
package config
