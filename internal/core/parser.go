package core

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Parse parses YAML content into a Pipeline. The result is not yet
// validated; call Validate before running it.
func Parse(data []byte) (*Pipeline, error) {
	var pipeline Pipeline
	if err := yaml.Unmarshal(data, &pipeline); err != nil {
		return nil, errors.Wrap(err, "parse pipeline definition")
	}
	return &pipeline, nil
}

// Load reads a pipeline definition file and parses it.
func Load(path string) (*Pipeline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read pipeline definition")
	}
	return Parse(data)
}
