package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		cmd.SetContext(ctx)

		a, err := buildApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()
		defer a.Log.Sync()

		if err := a.Index.Warm(ctx); err != nil {
			return fmt.Errorf("warm corpus: %w", err)
		}

		srv := &http.Server{
			Addr:              a.Config.Server.Addr,
			Handler:           a.API().Handler(),
			ReadHeaderTimeout: 10 * time.Second,
		}

		errc := make(chan error, 1)
		go func() {
			a.Log.Info("starting server",
				"addr", srv.Addr,
				"provider", a.Config.LLM.Provider,
				"model", a.Provider.ModelID(),
				"strategy", a.Config.Strategy(),
				"subjects", a.Index.Subjects(),
			)
			errc <- srv.ListenAndServe()
		}()

		select {
		case err := <-errc:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		case <-ctx.Done():
		}

		a.Log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (default :8080)")
}
