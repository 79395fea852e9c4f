// Package config defines the structures to configure a stem, its planner loop and its logging.
package config

import (
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.viam.com/utils"

	"github.com/igknighters/stemsolver/components/stem"
	"github.com/igknighters/stemsolver/control"
	"github.com/igknighters/stemsolver/logging"
	"github.com/igknighters/stemsolver/referenceframe"
)

// A Config describes how to build and drive a stem.
type Config struct {
	FrequencyHz float64                   `json:"frequency_hz"`
	Mechanism   Mechanism                 `json:"mechanism"`
	Target      *referenceframe.StemState `json:"target,omitempty"`
	Logging     Logging                   `json:"logging"`

	ConfigFilePath string `json:"-"`
}

// Mechanism names a registered stem model and the attributes used to build it.
type Mechanism struct {
	Model      string                 `json:"model"`
	Attributes map[string]interface{} `json:"attributes"`
}

// Logging configures the logger built by NewLogger.
type Logging struct {
	Level     string `json:"level"`
	File      string `json:"file,omitempty"`
	MaxSizeMB int    `json:"max_size_mb,omitempty"`
}

// LoopConfig returns the control loop settings.
func (c *Config) LoopConfig() control.LoopConfig {
	return control.LoopConfig{Frequency: c.FrequencyHz}
}

// Validate returns every problem with the config, not just the first.
func (c *Config) Validate() error {
	var errs error
	if err := c.LoopConfig().Validate(); err != nil {
		errs = multierr.Append(errs, utils.NewConfigValidationError("frequency_hz", err))
	}
	errs = multierr.Append(errs, c.Mechanism.Validate("mechanism"))
	if c.Target != nil {
		if err := c.Target.Validate(); err != nil {
			errs = multierr.Append(errs, utils.NewConfigValidationError("target", err))
		}
	}
	errs = multierr.Append(errs, c.Logging.Validate("logging"))
	return errs
}

// Validate ensures the model is registered and accepts the attributes.
func (m *Mechanism) Validate(path string) error {
	if m.Model == "" {
		return utils.NewConfigValidationFieldRequiredError(path, "model")
	}
	if err := stem.ValidateAttributes(m.Model, m.Attributes); err != nil {
		return utils.NewConfigValidationError(path, err)
	}
	return nil
}

// Validate ensures the level parses and the file size is usable.
func (l *Logging) Validate(path string) error {
	var errs error
	if _, err := logging.LevelFromString(l.Level); err != nil {
		errs = multierr.Append(errs, utils.NewConfigValidationError(path, err))
	}
	if l.MaxSizeMB < 0 {
		errs = multierr.Append(errs, utils.NewConfigValidationError(path,
			errors.Errorf("max_size_mb must not be negative, got %d", l.MaxSizeMB)))
	}
	return errs
}
