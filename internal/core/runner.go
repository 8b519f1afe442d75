package core

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"forgeci/pkg/utils"
)

// LogStore persists captured step output. The storage package provides
// the file-backed implementation.
type LogStore interface {
	SaveStepLog(runID, config, step, output string) (string, error)
}

// JournalAppender records step outcomes in the tamper-evident run
// journal. The journal package provides the implementation.
type JournalAppender interface {
	AppendStep(runID, config, step string, exitCode int, logHash string) error
}

// ProgressFunc is invoked right before each step starts. Optional;
// used by the CLI for live progress output.
type ProgressFunc func(config, step string)

// Runner ties together executor, log storage and journal, and drives
// triggered pipeline runs. Logs, Journal and Progress are optional.
type Runner struct {
	Executor    *Executor
	Logs        LogStore
	Journal     JournalAppender
	MaxParallel int // concurrent configurations, 0 = unlimited
	Progress    ProgressFunc
}

func NewRunner(exec *Executor) *Runner {
	return &Runner{Executor: exec}
}

// Run executes the pipeline once for the given trigger.
//
// A malformed definition returns a ConfigError before any step is
// invoked. A trigger outside the branch allow-list returns a result
// with Triggered=false and zero step invocations; that is a valid
// outcome, not an error. Otherwise every configuration runs to its own
// completion: steps strictly in order with fail-fast inside a
// configuration, configurations concurrently and independently of each
// other. One configuration's failure never cancels a sibling.
func (r *Runner) Run(ctx context.Context, runID string, p *Pipeline, trg Trigger) (*RunResult, error) {
	if err := Validate(p); err != nil {
		return nil, err
	}

	res := &RunResult{
		ID:        runID,
		Pipeline:  p.Name,
		Trigger:   trg,
		StartedAt: time.Now(),
	}

	if !p.Matches(trg) {
		res.Status = StatusSkipped
		res.FinishedAt = time.Now()
		return res, nil
	}
	res.Triggered = true
	res.Status = StatusRunning

	res.Configurations = make([]ConfigurationResult, len(p.Configurations))
	for i, cfg := range p.Configurations {
		steps, err := p.Resolve(cfg)
		if err != nil {
			return nil, err
		}
		cr := ConfigurationResult{Name: cfg.Name, Status: StatusPending}
		for _, s := range steps {
			cr.Steps = append(cr.Steps, StepResult{
				Name:    s.Name,
				Command: s.Command,
				Status:  StatusPending,
			})
		}
		res.Configurations[i] = cr
	}

	// Configurations join through an errgroup but never return errors:
	// a failing configuration is data in the result, and returning an
	// error would cancel the siblings' context.
	grp, gctx := errgroup.WithContext(ctx)
	if r.MaxParallel > 0 {
		grp.SetLimit(r.MaxParallel)
	}
	for i := range res.Configurations {
		cr := &res.Configurations[i]
		grp.Go(func() error {
			r.runConfiguration(gctx, runID, cr)
			return nil
		})
	}
	_ = grp.Wait()

	res.Status = aggregate(res.Configurations)
	res.FinishedAt = time.Now()
	return res, nil
}

// runConfiguration runs one configuration's steps in order, stopping
// at the first failure and marking the remainder skipped.
func (r *Runner) runConfiguration(ctx context.Context, runID string, cr *ConfigurationResult) {
	cr.Status = StatusRunning

	failedAt := -1
	for i := range cr.Steps {
		step := &cr.Steps[i]
		if r.Progress != nil {
			r.Progress(cr.Name, step.Name)
		}

		step.transition(StatusRunning)
		step.StartedAt = time.Now()

		output, code := r.Executor.RunStep(ctx, ResolvedStep{Name: step.Name, Command: step.Command})
		step.Output = output
		step.ExitCode = code
		step.FinishedAt = time.Now()

		r.record(runID, cr.Name, step)

		if code != 0 {
			step.transition(StatusFailed)
			failedAt = i
			break
		}
		step.transition(StatusPassed)
	}

	if failedAt < 0 {
		cr.Status = StatusPassed
		return
	}
	cr.Status = StatusFailed
	for i := failedAt + 1; i < len(cr.Steps); i++ {
		cr.Steps[i].transition(StatusSkipped)
	}
}

// record persists the step log and appends a journal entry. Both are
// best-effort: losing a log or a journal entry must not fail the step.
func (r *Runner) record(runID, config string, step *StepResult) {
	logHash := utils.HashString(step.Output)
	if r.Logs != nil {
		path, err := r.Logs.SaveStepLog(runID, config, step.Name, step.Output)
		if err == nil {
			step.LogPath = path
			if h, err := utils.HashFile(path); err == nil {
				logHash = h
			}
		}
	}
	if r.Journal != nil {
		_ = r.Journal.AppendStep(runID, config, step.Name, step.ExitCode, logHash)
	}
}
