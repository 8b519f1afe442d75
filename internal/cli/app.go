// Package cli wires the forgeci commands: run, validate, serve and
// journal inspection.
package cli

import (
	"io"

	"github.com/pkg/errors"

	"forgeci/internal/config"
	"forgeci/internal/core"
	"forgeci/internal/journal"
	"forgeci/internal/security"
	"forgeci/internal/storage"
)

// App carries the resolved configuration and output writer shared by
// all commands.
type App struct {
	Config *config.Config
	Out    io.Writer
}

// newRunner builds the runner stack from the configuration: executor,
// log storage and, when enabled, the signed journal (generating a key
// pair on first use).
func (app *App) newRunner() (*core.Runner, *journal.Journal, error) {
	runner := core.NewRunner(core.NewExecutor(app.Config.Executor.StepTimeout))
	runner.MaxParallel = app.Config.Executor.MaxParallel
	runner.Logs = storage.NewLogStorage(app.Config.Storage.LogDir)

	var jnl *journal.Journal
	if app.Config.Journal.Enabled {
		pub, priv, err := security.EnsureKeyPair(
			app.Config.Journal.PublicKeyPath,
			app.Config.Journal.PrivateKeyPath,
		)
		if err != nil {
			return nil, nil, errors.Wrap(err, "init journal keys")
		}
		jnl, err = journal.Open(app.Config.Journal.Path, pub, priv)
		if err != nil {
			return nil, nil, errors.Wrap(err, "open journal")
		}
		runner.Journal = jnl
	}
	return runner, jnl, nil
}

// loadPipeline reads and validates a pipeline definition, applying the
// configured default branch allow-list when the file declares none.
func (app *App) loadPipeline(path string) (*core.Pipeline, error) {
	pipeline, err := core.Load(path)
	if err != nil {
		return nil, err
	}
	if len(pipeline.Branches) == 0 {
		pipeline.Branches = app.Config.Branches
	}
	if err := core.Validate(pipeline); err != nil {
		return nil, err
	}
	return pipeline, nil
}
