package core

import "strings"

// ResolvedStep is a step bound to one configuration, with the
// configuration's flags already merged into the command line.
type ResolvedStep struct {
	Name    string
	Command string
}

// Resolve returns the ordered, flag-merged step sequence for one
// configuration. Flags are appended to the command, whitespace
// separated, unless the step declares itself flag-insensitive.
// Resolution assumes the pipeline passed Validate; an unknown step
// reference still yields a ConfigError rather than a panic.
func (p *Pipeline) Resolve(cfg Configuration) ([]ResolvedStep, error) {
	steps := make([]ResolvedStep, 0, len(cfg.Steps))
	for _, ref := range cfg.Steps {
		def, ok := p.step(ref)
		if !ok {
			return nil, configErrorf("configuration %q references unknown step %q", cfg.Name, ref)
		}
		cmd := def.Run
		if len(cfg.Flags) > 0 && !def.IgnoreFlags {
			cmd = cmd + " " + strings.Join(cfg.Flags, " ")
		}
		steps = append(steps, ResolvedStep{Name: def.Name, Command: cmd})
	}
	return steps, nil
}
