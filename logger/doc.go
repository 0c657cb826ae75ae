// Package logger provides structured logging for streaming pipelines
// using zerolog.
//
// It supports multiple output formats (JSON, console), log level
// configuration, and component-scoped loggers with structured fields.
// Pipeline runs are correlated through stream IDs carried in the
// context.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//
// # Usage
//
//	log := logger.Get("runner")
//	log.Info("pipeline drained", logger.StreamFields(streamID, "connect"))
package logger
