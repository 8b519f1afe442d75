package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveMergesFlags(t *testing.T) {
	p, err := Parse([]byte(sampleYAML))
	require.NoError(t, err)
	require.NoError(t, Validate(p))

	steps, err := p.Resolve(p.Configurations[1]) // multi
	require.NoError(t, err)
	require.Len(t, steps, 4)

	assert.Equal(t, "cargo build --features multi", steps[0].Command)
	assert.Equal(t, "cargo test --features multi", steps[1].Command)
	assert.Equal(t, "cargo clippy -- -D warnings --features multi", steps[2].Command)
	// format-check declares ignore_flags and runs unflagged.
	assert.Equal(t, "cargo fmt --check", steps[3].Command)
}

func TestResolveNoFlags(t *testing.T) {
	p, err := Parse([]byte(sampleYAML))
	require.NoError(t, err)

	steps, err := p.Resolve(p.Configurations[0]) // default
	require.NoError(t, err)
	assert.Equal(t, "cargo build", steps[0].Command)
}

func TestResolveUnknownStep(t *testing.T) {
	p := validPipeline()
	_, err := p.Resolve(Configuration{Name: "broken", Steps: []string{"missing"}})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidPipeline)
}
