package core

import (
	"errors"
	"fmt"
)

// ErrInvalidPipeline is the kind of every configuration error. Use
// errors.Is against it to distinguish malformed definitions from
// execution failures.
var ErrInvalidPipeline = errors.New("invalid pipeline definition")

// ConfigError reports a malformed pipeline definition. Configuration
// errors are detected before any step is invoked; a pipeline that
// fails validation never runs.
type ConfigError struct {
	Msg string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %s", ErrInvalidPipeline.Error(), e.Msg)
}

func (e *ConfigError) Unwrap() error { return ErrInvalidPipeline }

func configErrorf(format string, args ...any) error {
	return &ConfigError{Msg: fmt.Sprintf(format, args...)}
}

// Validate checks the pipeline definition for structural errors:
// duplicate names, empty commands, configurations with no steps and
// references to steps that do not exist.
func Validate(p *Pipeline) error {
	if len(p.Steps) == 0 {
		return configErrorf("no steps declared")
	}
	if len(p.Configurations) == 0 {
		return configErrorf("no configurations declared")
	}

	stepNames := make(map[string]bool, len(p.Steps))
	for _, s := range p.Steps {
		if s.Name == "" {
			return configErrorf("step with empty name")
		}
		if s.Run == "" {
			return configErrorf("step %q has an empty command", s.Name)
		}
		if stepNames[s.Name] {
			return configErrorf("duplicate step name %q", s.Name)
		}
		stepNames[s.Name] = true
	}

	configNames := make(map[string]bool, len(p.Configurations))
	for _, c := range p.Configurations {
		if c.Name == "" {
			return configErrorf("configuration with empty name")
		}
		if configNames[c.Name] {
			return configErrorf("duplicate configuration name %q", c.Name)
		}
		configNames[c.Name] = true

		if len(c.Steps) == 0 {
			return configErrorf("configuration %q has no steps", c.Name)
		}
		for _, ref := range c.Steps {
			if !stepNames[ref] {
				return configErrorf("configuration %q references unknown step %q", c.Name, ref)
			}
		}
	}
	return nil
}
