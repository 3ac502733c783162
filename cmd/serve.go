package cmd

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/stellarsig/msig/internal/adapters/chatws"
)

func newServeCmd(cfgPath *string) *cobra.Command {
	var addr, token string

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the websocket chat bridge",
		Long:  "Serves the websocket chat bridge. Clients connect with ?token=<token>&session=<room>&member=<name> and exchange JSON frames {\"text\": ...} in, {\"member\", \"text\", \"private\"} out.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := wireApp(*cfgPath)
			if err != nil {
				return err
			}
			if addr != "" {
				app.cfg.Server.Addr = addr
			}
			if token != "" {
				app.cfg.Server.Token = token
			}
			if app.cfg.Server.Token == "" {
				return errors.New("a shared token is required: set server.token, MSIG_SERVER_TOKEN or --token")
			}

			server := &http.Server{
				Addr:              app.cfg.Server.Addr,
				Handler:           chatws.NewHandler(app.cfg.Server.Token, app.router, app.log),
				ReadHeaderTimeout: 10 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				errCh <- server.ListenAndServe()
			}()
			app.log.Info("chat bridge listening", "addr", app.cfg.Server.Addr, "horizon", app.cfg.Horizon.URL)

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			app.log.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	}

	serveCmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")
	serveCmd.Flags().StringVar(&token, "token", "", "shared auth token (overrides config)")

	return serveCmd
}
