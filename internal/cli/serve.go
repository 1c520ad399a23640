package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/reportmap/internal/core"
	"github.com/JonMunkholm/reportmap/internal/logging"
	"github.com/JonMunkholm/reportmap/internal/web"
)

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the upload web server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger, closer, err := logging.SetupWithConsole(a.cfg.Logging, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer closer.Close()

			logger.Info("configuration loaded",
				"addr", a.cfg.Server.Addr(),
				"upload_max_concurrent", a.cfg.Upload.MaxConcurrent,
				"rate_limit_enabled", a.cfg.Rate.Enabled,
			)

			service := core.NewService(logger, core.OptionsFromConfig(a.cfg))
			server := web.NewServer(a.cfg, service, logger)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				errCh <- server.Start()
			}()

			select {
			case err := <-errCh:
				if err != nil {
					return fmt.Errorf("server: %w", err)
				}
				return nil
			case <-ctx.Done():
			}

			logger.Info("shutting down...", "active_batches", service.Limiter().Active())

			shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
			defer cancel()

			if err := server.Shutdown(shutdownCtx); err != nil {
				logger.Warn("shutdown did not complete cleanly", "error", err)
				return err
			}
			logger.Info("server stopped")
			return <-errCh
		},
	}
}
