package core

import "time"

// Status is the state of a step, a configuration or a whole run.
//
// Steps move pending -> running -> {passed|failed}. A step is marked
// skipped, from pending only, when an earlier step in the same
// configuration failed. A run that did not match the branch
// allow-list stays skipped as a whole.
type Status string

const (
	StatusPending Status = "pending"
	StatusRunning Status = "running"
	StatusPassed  Status = "passed"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "skipped"
)

// Terminal reports whether the status is final.
func (s Status) Terminal() bool {
	switch s {
	case StatusPassed, StatusFailed, StatusSkipped:
		return true
	default:
		return false
	}
}

func allowedTransition(from, to Status) bool {
	switch from {
	case StatusPending:
		return to == StatusRunning || to == StatusSkipped
	case StatusRunning:
		return to == StatusPassed || to == StatusFailed
	default:
		return false
	}
}

// StepResult records one step invocation within one configuration.
type StepResult struct {
	Name       string    `json:"name"`
	Command    string    `json:"command"`
	Status     Status    `json:"status"`
	ExitCode   int       `json:"exit_code"`
	Output     string    `json:"output"`
	LogPath    string    `json:"log_path,omitempty"`
	StartedAt  time.Time `json:"started_at,omitempty"`
	FinishedAt time.Time `json:"finished_at,omitempty"`
}

// transition moves the step to a new status, panicking on a
// disallowed move. Transitions are driven only by the runner, so a
// bad transition is a programming error, not an input error.
func (sr *StepResult) transition(to Status) {
	if !allowedTransition(sr.Status, to) {
		panic("forgeci: disallowed step transition " + string(sr.Status) + " -> " + string(to))
	}
	sr.Status = to
}

// ConfigurationResult aggregates the step results of one configuration.
type ConfigurationResult struct {
	Name   string       `json:"name"`
	Status Status       `json:"status"`
	Steps  []StepResult `json:"steps"`
}

// RunResult is the aggregate outcome of one triggered pipeline run.
// Status is passed iff every configuration passed. Triggered is false
// when the trigger's branch missed the allow-list; such a run records
// no step invocations and is not a failure.
type RunResult struct {
	ID             string                `json:"id"`
	Pipeline       string                `json:"pipeline"`
	Trigger        Trigger               `json:"trigger"`
	Triggered      bool                  `json:"triggered"`
	Status         Status                `json:"status"`
	Configurations []ConfigurationResult `json:"configurations,omitempty"`
	StartedAt      time.Time             `json:"started_at"`
	FinishedAt     time.Time             `json:"finished_at,omitempty"`
}

// aggregate reduces configuration statuses with a logical AND.
func aggregate(configs []ConfigurationResult) Status {
	status := StatusPassed
	for _, c := range configs {
		if c.Status != StatusPassed {
			status = StatusFailed
		}
	}
	return status
}
