package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/dropDatabas3/hellosocial/internal/http/v2/server"
	"github.com/dropDatabas3/hellosocial/internal/observability/logger"
)

const shutdownTimeout = 15 * time.Second

func newServeCmd(load loadFunc) *cobra.Command {
	var envFile string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Levanta el servidor HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			// .env es opcional; el entorno real tiene prioridad
			if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf("load %s: %w", envFile, err)
			}

			cfg, err := load()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid config:\n%w", err)
			}
			if commit != "" {
				_ = os.Setenv("SERVICE_COMMIT", commit)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			handler, cleanup, err := server.BuildHandler(ctx, cfg, server.Options{Version: version})
			if err != nil {
				return fmt.Errorf("wiring: %w", err)
			}
			defer func() {
				if err := cleanup(); err != nil {
					logger.L().Warn("cleanup failed", logger.Err(err))
				}
			}()

			srv := &http.Server{
				Addr:         cfg.Server.Addr,
				Handler:      handler,
				ReadTimeout:  cfg.Server.ReadTimeout,
				WriteTimeout: cfg.Server.WriteTimeout,
			}

			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				logger.L().Info("server listening",
					logger.String("addr", cfg.Server.Addr),
					logger.String("base_url", cfg.Server.BaseURL),
					logger.String("home_provider", cfg.Social.HomeProvider),
					logger.String("store", cfg.Store.Driver),
				)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("serve http: %w", err)
				}
				return nil
			})
			g.Go(func() error {
				<-gctx.Done()
				logger.L().Info("shutting down")
				shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(gctx), shutdownTimeout)
				defer cancel()
				if err := srv.Shutdown(shutdownCtx); err != nil {
					return fmt.Errorf("shutdown http server: %w", err)
				}
				return nil
			})
			return g.Wait()
		},
	}
	cmd.Flags().StringVar(&envFile, "env-file", ".env", "Archivo .env opcional")
	return cmd
}
