package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"mirror-api/internal/config"
	"mirror-api/pkg/server"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 30 * time.Second

func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "mirror-api",
		Short:        "Local development server for the mirror API",
		Long:         "Serves the same handler that runs in AWS Lambda over plain HTTP.",
		SilenceUsage: true,
		RunE:         runServe,
	}
	registerFlags(rootCmd)

	serveCmd := &cobra.Command{
		Use:          "serve",
		Short:        "Start the local HTTP listener",
		SilenceUsage: true,
		RunE:         runServe,
	}
	registerFlags(serveCmd)
	rootCmd.AddCommand(serveCmd)

	return rootCmd
}

func registerFlags(cmd *cobra.Command) {
	cmd.Flags().String("port", "", "Port for the HTTP server. (Env: PORT)")
	cmd.Flags().String("region", "", "Region reported by /health. (Env: AWS_REGION)")
	cmd.Flags().String("env", "", "Environment name. (Env: ENVIRONMENT)")
	cmd.Flags().String("log-level", "", "Logging level (trace, debug, info, warn, error). (Env: LOG_LEVEL)")
	cmd.Flags().String("frontend-origin", "", "Origin of the local frontend allowed by CORS. (Env: FRONTEND_ORIGIN)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return serve(ctx, cfg, nil)
}

// serve runs the local listener until ctx is cancelled. A nil listener
// binds cfg.Port on all interfaces.
func serve(ctx context.Context, cfg *config.Config, ln net.Listener) error {
	container, err := server.NewContainer(cfg, nil)
	if err != nil {
		return fmt.Errorf("failed to initialize container: %w", err)
	}
	log := container.Logger

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	if ln == nil {
		ln, err = net.Listen("tcp", ":"+cfg.Port)
		if err != nil {
			return fmt.Errorf("failed to listen on port %s: %w", cfg.Port, err)
		}
	}

	srv := &http.Server{
		Handler:           server.NewRouter(container),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	port := cfg.Port
	if addr, ok := ln.Addr().(*net.TCPAddr); ok {
		port = fmt.Sprint(addr.Port)
	}
	log.WithFields(logrus.Fields{
		"port":           port,
		"region":         cfg.Region,
		"frontendOrigin": cfg.FrontendOrigin,
	}).Infof("Local API server running on http://localhost:%s", port)
	log.Infof("Health endpoint: http://localhost:%s/health", port)

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info("Server exited")
	return nil
}
