package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"forgeci/internal/core"
	"forgeci/internal/report"
)

func newRunCommand(app *App) *cobra.Command {
	var (
		event  string
		branch string
	)

	cmd := &cobra.Command{
		Use:   "run <pipeline.yaml>",
		Short: "Execute a pipeline for a simulated trigger",
		Long: `Execute a pipeline definition locally, as if the given event had
arrived from the version-control host.

Example:
  forgeci run pipeline.yaml --event push --branch stable`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := core.ParseEventKind(event)
			if err != nil {
				return err
			}
			pipeline, err := app.loadPipeline(args[0])
			if err != nil {
				return err
			}
			runner, _, err := app.newRunner()
			if err != nil {
				return err
			}
			runner.Progress = func(config, step string) {
				fmt.Fprintf(app.Out, "[%s] running %s\n", config, step)
			}

			runID := "local-" + time.Now().Format("20060102-150405")
			trg := core.Trigger{Event: kind, Branch: branch}

			res, err := runner.Run(cmd.Context(), runID, pipeline, trg)
			if err != nil {
				return err
			}

			fmt.Fprint(app.Out, report.Render(res))
			if res.Triggered && res.Status == core.StatusFailed {
				fmt.Fprint(app.Out, report.RenderFailure(res))
				cmd.SilenceUsage = true
				os.Exit(1)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&event, "event", string(core.EventPush), "trigger event kind (push or pull_request)")
	cmd.Flags().StringVar(&branch, "branch", "stable", "trigger branch")
	return cmd
}
