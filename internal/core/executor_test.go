package core

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRunStepCapturesOutput(t *testing.T) {
	e := NewExecutor(time.Minute)
	out, code := e.RunStep(context.Background(), ResolvedStep{
		Name:    "echo",
		Command: "echo hello; echo oops >&2",
	})
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "hello")
	assert.Contains(t, out, "oops")
}

func TestRunStepExitCode(t *testing.T) {
	e := NewExecutor(time.Minute)
	_, code := e.RunStep(context.Background(), ResolvedStep{Name: "fail", Command: "exit 3"})
	assert.Equal(t, 3, code)
}

func TestRunStepMissingBinary(t *testing.T) {
	e := NewExecutor(time.Minute)
	out, code := e.RunStep(context.Background(), ResolvedStep{
		Name:    "missing",
		Command: "definitely-not-a-real-binary-12345",
	})
	assert.NotEqual(t, 0, code)
	assert.NotEmpty(t, out)
}

func TestRunStepTimeout(t *testing.T) {
	e := NewExecutor(50 * time.Millisecond)
	start := time.Now()
	_, code := e.RunStep(context.Background(), ResolvedStep{Name: "slow", Command: "sleep 5"})
	assert.NotEqual(t, 0, code)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestNewExecutorDefaultTimeout(t *testing.T) {
	assert.Equal(t, DefaultStepTimeout, NewExecutor(0).Timeout)
}
