package core

// Pipeline is a parsed declarative pipeline definition: a catalog of
// named steps plus the configurations that reference them by name.
// Configurations are independent siblings; steps within a
// configuration run strictly in declaration order.
type Pipeline struct {
	Name           string          `yaml:"pipeline"`
	Branches       []string        `yaml:"branches"`
	Steps          []StepDef       `yaml:"steps"`
	Configurations []Configuration `yaml:"configurations"`
}

// StepDef declares a single named verification command. A step that
// sets IgnoreFlags never receives configuration flags (e.g. a format
// check, which is flag-independent).
type StepDef struct {
	Name        string `yaml:"name"`
	Run         string `yaml:"run"`
	IgnoreFlags bool   `yaml:"ignore_flags"`
}

// Configuration is a named variant of the pipeline. Its flag set is
// applied uniformly to every flag-sensitive step it references.
type Configuration struct {
	Name  string   `yaml:"name"`
	Flags []string `yaml:"flags"`
	Steps []string `yaml:"steps"`
}

// step looks up a step definition by name.
func (p *Pipeline) step(name string) (StepDef, bool) {
	for _, s := range p.Steps {
		if s.Name == name {
			return s, true
		}
	}
	return StepDef{}, false
}
