// Package config defines the run configuration for an organization baseline.
//
// A [Config] is assembled in layers: built-in defaults, an optional YAML file
// ([LoadFile]), ORGBASELINE_* environment variables ([ApplyEnv]) and finally
// CLI flags. [Config.Validate] runs once all layers are applied.
package config
