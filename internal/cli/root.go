package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"forgeci/internal/config"
)

// NewRootCommand builds the forgeci command tree.
func NewRootCommand(app *App) *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "forgeci",
		Short:         "Declarative CI pipeline executor",
		Long:          "forgeci runs declarative verification pipelines: ordered steps across\nindependent configurations, fail-fast within a configuration, with\nper-step logs and a tamper-evident run journal.",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.NewLoader().Load(configPath)
			if err != nil {
				return err
			}
			app.Config = cfg
			return nil
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ./forgeci.yaml)")

	root.AddCommand(newRunCommand(app))
	root.AddCommand(newValidateCommand(app))
	root.AddCommand(newServeCommand(app))
	root.AddCommand(newJournalCommand(app))
	return root
}

// Execute runs the CLI with a signal-aware context and returns the
// process exit code.
func Execute() int {
	app := &App{Out: os.Stdout}
	root := NewRootCommand(app)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := root.ExecuteContext(ctx); err != nil {
		return 1
	}
	return 0
}
