package config

import (
	"fmt"

	"github.com/altos-research/conduit/logger"
	"github.com/altos-research/conduit/observability"
	"github.com/altos-research/conduit/text"
	"github.com/altos-research/conduit/validation"
)

// TextConfig configures the text processing layer: chunk sizing for
// producers, the line-length bound, and the default byte codec.
type TextConfig struct {
	ChunkSize     int    `yaml:"chunk_size" mapstructure:"chunk_size" validate:"gt=0"`
	MaxLineLength int    `yaml:"max_line_length" mapstructure:"max_line_length" validate:"gt=0"`
	DefaultCodec  string `yaml:"default_codec" mapstructure:"default_codec" validate:"required"`
}

// ApplyDefaults applies default values to text configuration.
func (c *TextConfig) ApplyDefaults() {
	if c.ChunkSize == 0 {
		c.ChunkSize = 4096
	}
	if c.MaxLineLength == 0 {
		c.MaxLineLength = 1 << 20
	}
	if c.DefaultCodec == "" {
		c.DefaultCodec = "UTF-8"
	}
}

// Validate validates text configuration.
func (c *TextConfig) Validate() error {
	_, known := text.LookupCodec(c.DefaultCodec)
	if serr := validation.New().
		Min("text.chunk_size", c.ChunkSize, 1).
		Min("text.max_line_length", c.MaxLineLength, 1).
		Custom(known, "text.default_codec", fmt.Sprintf("%q is not a known encoding", c.DefaultCodec)).
		Validate(); serr != nil {
		return serr
	}
	return nil
}

// Codec resolves the configured default codec. Call Validate first; an
// unknown name falls back to UTF-8.
func (c *TextConfig) Codec() text.Codec {
	if codec, ok := text.LookupCodec(c.DefaultCodec); ok {
		return codec
	}
	return text.UTF8
}

// ObservabilityConfig configures the OpenTelemetry exporters.
type ObservabilityConfig struct {
	Enabled    bool    `yaml:"enabled" mapstructure:"enabled"`
	Endpoint   string  `yaml:"endpoint" mapstructure:"endpoint" validate:"required"`
	Insecure   bool    `yaml:"insecure" mapstructure:"insecure"`
	SampleRate float64 `yaml:"sample_rate" mapstructure:"sample_rate" validate:"gte=0,lte=1"`
}

// ApplyDefaults applies default values to observability configuration.
func (c *ObservabilityConfig) ApplyDefaults() {
	if c.Endpoint == "" {
		c.Endpoint = "localhost:4318"
	}
	if c.SampleRate == 0 {
		c.SampleRate = 1.0
	}
}

// Validate validates observability configuration.
func (c *ObservabilityConfig) Validate() error {
	if serr := validation.New().
		Required("observability.endpoint", c.Endpoint).
		Custom(c.SampleRate >= 0 && c.SampleRate <= 1, "observability.sample_rate",
			fmt.Sprintf("must be between 0 and 1 (got: %g)", c.SampleRate)).
		Validate(); serr != nil {
		return serr
	}
	return nil
}

// PipelineConfig is the top-level configuration for a pipeline process.
// Projects extend it by embedding it in their own config structs.
//
// Example:
//
//	type MyConfig struct {
//	    config.PipelineConfig `yaml:",inline" mapstructure:",squash"`
//	    Input InputConfig `yaml:"input" mapstructure:"input"`
//	}
type PipelineConfig struct {
	BaseConfig    `yaml:",inline" mapstructure:",squash"`
	Logging       logger.Config       `yaml:"logging" mapstructure:"logging"`
	Text          TextConfig          `yaml:"text" mapstructure:"text"`
	Observability ObservabilityConfig `yaml:"observability" mapstructure:"observability"`
}

// GetPipelineConfig returns the base PipelineConfig.
// When embedded in a larger config struct, this method is promoted
// so the embedding struct automatically satisfies the Config interface.
func (c *PipelineConfig) GetPipelineConfig() *PipelineConfig {
	return c
}

// ApplyDefaults applies default values across all sections.
// Override this in embedding structs and call c.PipelineConfig.ApplyDefaults() first.
func (c *PipelineConfig) ApplyDefaults() {
	c.BaseConfig.ApplyDefaults()
	c.Logging.ApplyDefaults()
	c.Text.ApplyDefaults()
	c.Observability.ApplyDefaults()
}

// Validate validates all sections: struct tags first, then the
// cross-field checks the tags cannot express.
// Override this in embedding structs and call c.PipelineConfig.Validate() first.
func (c *PipelineConfig) Validate() error {
	if err := validation.Validate(c); err != nil {
		return err
	}
	if err := c.BaseConfig.Validate(); err != nil {
		return err
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("config.logging: %w", err)
	}
	if err := c.Text.Validate(); err != nil {
		return fmt.Errorf("config.text: %w", err)
	}
	if err := c.Observability.Validate(); err != nil {
		return fmt.Errorf("config.observability: %w", err)
	}
	return nil
}

// MeterConfig builds the meter exporter configuration from the
// observability section, carrying the process identity from BaseConfig.
func (c *PipelineConfig) MeterConfig() observability.MeterConfig {
	mc := observability.DefaultMeterConfig(c.Name)
	mc.ServiceVersion = c.Version
	mc.Environment = c.Environment
	mc.Endpoint = c.Observability.Endpoint
	mc.Insecure = c.Observability.Insecure
	return mc
}

// TracerConfig builds the tracer exporter configuration from the
// observability section, carrying the process identity from BaseConfig.
func (c *PipelineConfig) TracerConfig() observability.TracerConfig {
	tc := observability.DefaultTracerConfig(c.Name)
	tc.ServiceVersion = c.Version
	tc.Environment = c.Environment
	tc.Endpoint = c.Observability.Endpoint
	tc.Insecure = c.Observability.Insecure
	tc.SampleRate = c.Observability.SampleRate
	return tc
}
