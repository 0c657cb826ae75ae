// Package validation provides input validation for pipeline configuration.
//
// It supports both struct tag validation (using the validator library) and
// programmatic validation with error collection. Struct tag validation is
// recommended for configuration structs.
//
// # Struct Tag Validation
//
//	type TextConfig struct {
//	    MaxLineLength int    `validate:"gt=0"`
//	    DefaultCodec  string `validate:"required"`
//	}
//	err := validation.Validate(cfg)
//
// # Programmatic Validation
//
//	v := validation.New()
//	v.Min("chunk_size", cfg.ChunkSize, 1)
//	err := v.Validate()
package validation
