// Package errors provides unified error handling for streaming pipelines.
// It implements structured error types with machine-readable error codes
// and detail maps, so pipeline drivers can tell decode failures, encode
// failures, and bound violations apart from foreign faults passed through
// the pipeline unchanged.
package errors
