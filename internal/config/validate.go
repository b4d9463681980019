package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateVetting(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateVetting() error {
	if c.Vetting.FuzzyThreshold < 0 || c.Vetting.FuzzyThreshold > 1 {
		return errors.New("vetting.fuzzy_threshold must be between 0 and 1")
	}
	if c.Vetting.FuzzyFloor < 0 || c.Vetting.FuzzyFloor > 1 {
		return errors.New("vetting.fuzzy_floor must be between 0 and 1")
	}
	if c.Vetting.CertainConfidence < 0 || c.Vetting.CertainConfidence > 1 {
		return errors.New("vetting.certain_confidence must be between 0 and 1")
	}
	if c.Vetting.FuzzyFloor > c.Vetting.FuzzyThreshold {
		return errors.New("vetting.fuzzy_floor must not exceed vetting.fuzzy_threshold")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
		return nil
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
}
