// Package config handles configuration loading and management for itemprobe.
//
// It provides functionality for:
//   - Loading configuration from itemprobe.yaml, .itemprobe.yaml or itemprobe.json
//   - Default configuration values
//   - Merging file settings with environment and flag overrides
package config
