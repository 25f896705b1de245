package di

import (
	"fmt"

	"github.com/kbukum/bindkit/config"
	apperrors "github.com/kbukum/bindkit/errors"
	"github.com/kbukum/bindkit/logger"
	"github.com/kbukum/bindkit/validation"
)

// Config is the file-backed container configuration, read from the "di"
// section:
//
//	di:
//	  capacity: 127
//	  scope_capacity: 7
//	  logging:
//	    level: debug
type Config struct {
	Capacity      int           `yaml:"capacity" mapstructure:"capacity" validate:"gt=0"`
	ScopeCapacity int           `yaml:"scope_capacity" mapstructure:"scope_capacity" validate:"gt=0"`
	Logging       logger.Config `yaml:"logging" mapstructure:"logging"`
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	if c.Capacity == 0 {
		c.Capacity = DefaultCapacity
	}
	if c.ScopeCapacity == 0 {
		c.ScopeCapacity = DefaultScopeCapacity
	}
	c.Logging.ApplyDefaults()
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if err := validation.Validate(c); err != nil {
		return err
	}
	if err := c.Logging.Validate(); err != nil {
		return apperrors.Validation(err.Error()).WithCause(err)
	}
	return nil
}

type fileConfig struct {
	DI Config `yaml:"di" mapstructure:"di"`
}

// LoadConfig reads the "di" section for the named application, applies
// defaults and validates it. Environment variables such as DI_CAPACITY
// override the file.
func LoadConfig(name string, opts ...config.LoaderOption) (*Config, error) {
	var fc fileConfig
	if err := config.Load(name, &fc, opts...); err != nil {
		return nil, err
	}
	if err := config.Finalize(&fc.DI); err != nil {
		return nil, fmt.Errorf("di config: %w", err)
	}
	return &fc.DI, nil
}

// NewFromConfig creates a container sized and logged per cfg. opts are
// applied after the configured ones.
func NewFromConfig(cfg Config, opts ...Option) (*Container, error) {
	if err := config.Finalize(&cfg); err != nil {
		return nil, fmt.Errorf("di config: %w", err)
	}
	base := []Option{
		WithCapacity(cfg.Capacity),
		WithScopeCapacity(cfg.ScopeCapacity),
		WithLogger(logger.New(&cfg.Logging, "bindkit")),
	}
	return New(append(base, opts...)...)
}
