package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/c360studio/semi/config"
	"github.com/c360studio/semi/reader"
	"github.com/c360studio/semi/server"
)

func serveCmd(configPath, logLevel *string) *cobra.Command {
	var (
		listen string
		watch  bool
	)

	cmd := &cobra.Command{
		Use:   "serve [patterns...]",
		Short: "Serve the SEM-I inspection API",
		Long: `Serve loads the given SEM-I files (or the configured paths) and serves
the JSON inspection API. With --watch, changes to any contributing
file rebuild the interface and swap it in without a restart.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup(*configPath, *logLevel)
			if err != nil {
				return err
			}
			if listen != "" {
				cfg.Server.Listen = listen
			}
			if watch {
				cfg.SemI.Watch = true
			}
			return serve(cmd.Context(), args, cfg, logger)
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "", "Listen address (default: configured)")
	cmd.Flags().BoolVar(&watch, "watch", false, "Reload when SEM-I files change")
	return cmd
}

func serve(ctx context.Context, patterns []string, cfg *config.Config, logger *slog.Logger) error {
	s, result, err := loadSemI(patterns, cfg, logger)
	if err != nil {
		return err
	}

	srv := server.New(s, logger)

	httpSrv := &http.Server{
		Addr:         cfg.Server.Listen,
		Handler:      srv.Handler(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.SemI.Watch {
		watcher, err := reader.NewWatcher(result.Files, cfg.SemI.WatchDebounce, logger)
		if err != nil {
			return fmt.Errorf("start watcher: %w", err)
		}
		defer watcher.Close()
		go watcher.Start(ctx)
		go func() {
			for ev := range watcher.Events() {
				logger.Info("SEM-I files changed, reloading", slog.Int("changed", len(ev.Paths)))
				next, _, err := loadSemI(patterns, cfg, logger)
				if err != nil {
					logger.Error("Reload failed, keeping previous SEM-I", slog.String("error", err.Error()))
					continue
				}
				srv.Swap(next)
			}
		}()
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Serving SEM-I inspection API",
			slog.String("listen", cfg.Server.Listen),
			slog.String("source", s.Source()),
			slog.Bool("watch", cfg.SemI.Watch))
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.WriteTimeout)
	defer cancel()
	return httpSrv.Shutdown(shutdownCtx)
}
