// Package config provides configuration loading and validation for
// pipeline processes.
//
// It uses Viper to load configuration from files and environment variables,
// supporting YAML files, .env files, and environment-variable overrides.
//
// # Usage
//
//	var cfg config.PipelineConfig
//	err := config.LoadConfig("ingest", &cfg)
//	cfg.ApplyDefaults()
//	err = cfg.Validate()
//
// Environment variables override file values using underscore-separated
// paths (e.g., TEXT_CHUNK_SIZE maps to text.chunk_size).
package config
