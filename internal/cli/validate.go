package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newValidateCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <pipeline.yaml>",
		Short: "Parse and validate a pipeline definition",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pipeline, err := app.loadPipeline(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(app.Out, "%s: ok (%d steps, %d configurations)\n",
				args[0], len(pipeline.Steps), len(pipeline.Configurations))
			return nil
		},
	}
}
