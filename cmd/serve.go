package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"lantern/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the career matching HTTP API",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return serve(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

// serve runs the HTTP API until SIGINT or SIGTERM, then shuts down gracefully.
func serve(ctx context.Context) error {
	a, err := newApplication(false)
	if err != nil {
		return err
	}
	defer a.logger.Sync()

	appCtx, appCancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer appCancel()

	router := server.NewApiV1Router(a.engine, a.config.Engine.TopK, a.config.Server.MaxBodyBytes, a.logger)
	srv := server.NewServer(a.config.Server, router)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()
	a.logger.Info("Server listening",
		zap.String("address", srv.Address()),
		zap.Bool("model_available", a.engine.ModelAvailable()),
		zap.String("version", version),
	)

	select {
	case err := <-errCh:
		if err != nil {
			a.logger.Error("Server failed", zap.Error(err))
			return err
		}
	case <-appCtx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), a.config.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("Server shutdown", zap.Error(err))
		return err
	}
	a.logger.Info("Server stopped")

	return nil
}
