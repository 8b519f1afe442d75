package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"forgeci/internal/journal"
)

func newJournalCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Inspect the tamper-evident run journal",
	}
	cmd.AddCommand(newJournalVerifyCommand(app))
	cmd.AddCommand(newJournalInspectCommand(app))
	return cmd
}

func (app *App) openJournal(args []string) (*journal.Journal, error) {
	path := app.Config.Journal.Path
	if len(args) > 0 {
		path = args[0]
	}
	// Read-only: no signing keys needed for verify/inspect.
	return journal.Open(path, nil, nil)
}

func newJournalVerifyCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "verify [journal.jsonl]",
		Short: "Verify the journal hash chain and signatures",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jnl, err := app.openJournal(args)
			if err != nil {
				return err
			}
			if err := jnl.Verify(); err != nil {
				fmt.Fprintf(app.Out, "journal verification FAILED: %v\n", err)
				cmd.SilenceUsage = true
				os.Exit(1)
			}
			fmt.Fprintln(app.Out, "journal verification ok")
			return nil
		},
	}
}

func newJournalInspectCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect [journal.jsonl]",
		Short: "Print journal records",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jnl, err := app.openJournal(args)
			if err != nil {
				return err
			}
			for _, rec := range jnl.Records() {
				fmt.Fprintf(app.Out, "index=%d run=%s config=%s step=%s exit=%d hash=%s\n",
					rec.Index, rec.RunID, rec.Configuration, rec.Step, rec.ExitCode, rec.Hash[:16])
			}
			return nil
		},
	}
}
