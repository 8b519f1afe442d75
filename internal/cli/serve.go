package cli

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"forgeci/internal/api"
)

func newServeCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		Long: `Run the HTTP server that accepts pipeline submissions and trigger
events, and exposes run results, step logs and journal verification.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, jnl, err := app.newRunner()
			if err != nil {
				return err
			}
			srv := api.NewServer(runner, jnl, app.Config.Branches)

			addr := app.Config.Server.ListenAddr
			fmt.Fprintf(app.Out, "forgeci listening on %s\n", addr)

			httpSrv := &http.Server{Addr: addr, Handler: srv.Routes()}
			go func() {
				<-cmd.Context().Done()
				_ = httpSrv.Close()
			}()
			if err := httpSrv.ListenAndServe(); err != http.ErrServerClosed {
				return err
			}
			return nil
		},
	}
}
