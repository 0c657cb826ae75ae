package config

import (
	"github.com/altos-research/conduit/validation"
	"github.com/altos-research/conduit/version"
)

// BaseConfig contains essential fields that every pipeline process needs.
type BaseConfig struct {
	Name        string `yaml:"name" mapstructure:"name"`
	Environment string `yaml:"environment" mapstructure:"environment"`
	Version     string `yaml:"version" mapstructure:"version"`
	Debug       bool   `yaml:"debug" mapstructure:"debug"`
}

// ApplyDefaults applies default values to base configuration.
func (c *BaseConfig) ApplyDefaults() {
	if c.Environment == "" {
		c.Environment = "development"
	}
	if c.Environment == "development" {
		c.Debug = true
	}
	if c.Version == "" {
		c.Version = version.Version
	}
}

// Validate validates base configuration.
func (c *BaseConfig) Validate() error {
	if serr := validation.New().
		Required("base.name", c.Name).
		Required("base.environment", c.Environment).
		OneOf("base.environment", c.Environment, []string{"development", "staging", "production"}).
		Validate(); serr != nil {
		return serr
	}
	return nil
}
