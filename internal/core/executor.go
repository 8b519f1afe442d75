package core

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"time"
)

// DefaultStepTimeout bounds a single step when no timeout is configured.
const DefaultStepTimeout = 5 * time.Minute

// Executor runs step commands in a shell and reports their exit status.
type Executor struct {
	Timeout time.Duration
}

func NewExecutor(timeout time.Duration) *Executor {
	if timeout <= 0 {
		timeout = DefaultStepTimeout
	}
	return &Executor{Timeout: timeout}
}

// RunStep executes one resolved step command and returns its combined
// output and exit code. Zero means success; any other value is a
// failure. A spawn failure (missing shell, bad working directory) is
// reported the same way as a failing command: exit code -1 with the
// spawn error as output.
func (e *Executor) RunStep(ctx context.Context, step ResolvedStep) (string, int) {
	ctx, cancel := context.WithTimeout(ctx, e.Timeout)
	defer cancel()

	// Run the step in a shell (sh -c "cmd") so flags and pipes in the
	// definition behave like they would in a CI job.
	cmd := exec.CommandContext(ctx, "sh", "-c", step.Command)

	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	err := cmd.Run()
	if err == nil {
		return out.String(), 0
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return out.String(), exitErr.ExitCode()
	}
	// Process never started; surface the reason in the captured output.
	output := out.String()
	if output != "" {
		output += "\n"
	}
	return output + err.Error(), -1
}
