package core

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
pipeline: webreg
branches: [stable]
steps:
  - name: build
    run: cargo build
  - name: test
    run: cargo test
  - name: lint
    run: cargo clippy -- -D warnings
  - name: format-check
    run: cargo fmt --check
    ignore_flags: true
configurations:
  - name: default
    steps: [build, test, lint, format-check]
  - name: multi
    flags: ["--features", "multi"]
    steps: [build, test, lint, format-check]
`

func TestParse(t *testing.T) {
	p, err := Parse([]byte(sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, "webreg", p.Name)
	assert.Equal(t, []string{"stable"}, p.Branches)
	require.Len(t, p.Steps, 4)
	assert.Equal(t, "build", p.Steps[0].Name)
	assert.Equal(t, "cargo build", p.Steps[0].Run)
	assert.False(t, p.Steps[0].IgnoreFlags)
	assert.True(t, p.Steps[3].IgnoreFlags)

	require.Len(t, p.Configurations, 2)
	assert.Equal(t, "default", p.Configurations[0].Name)
	assert.Empty(t, p.Configurations[0].Flags)
	assert.Equal(t, []string{"--features", "multi"}, p.Configurations[1].Flags)
	assert.Equal(t, []string{"build", "test", "lint", "format-check"}, p.Configurations[1].Steps)
}

func TestParseInvalidYAML(t *testing.T) {
	_, err := Parse([]byte("steps: [:::"))
	require.Error(t, err)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pipeline.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleYAML), 0o644))

	p, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "webreg", p.Name)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}
