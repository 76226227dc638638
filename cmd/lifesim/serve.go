package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/warp/lifesim/api"
	"github.com/warp/lifesim/catalog"
	"github.com/warp/lifesim/config"
	"github.com/warp/lifesim/session"
	"github.com/warp/lifesim/sim"
	"github.com/warp/lifesim/store/sqlite"
)

// newServeCmd starts the HTTP API.
//
// GRACEFUL SHUTDOWN:
//
//	On SIGINT/SIGTERM the server stops accepting connections, waits up to
//	30s for active requests, then closes the database.
func newServeCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), cfg)
		},
	}
	cmd.Flags().StringVar(&cfg.Addr, "addr", cfg.Addr, "HTTP listen address")
	cmd.Flags().StringVar(&cfg.DBPath, "db", cfg.DBPath, `SQLite database path (":memory:" for in-memory)`)
	cmd.Flags().Uint64Var(&cfg.Seed, "seed", cfg.Seed, "root seed for new games (0 = wall clock)")
	cmd.Flags().StringSliceVar(&cfg.CORSOrigins, "cors", cfg.CORSOrigins, "allowed CORS origins")
	return cmd
}

func serve(ctx context.Context, cfg *config.Config) error {
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	engine := sim.NewEngine(catalog.Default(), sim.DefaultParams())
	saves := session.NewSaveManager(store, logger.WithPrefix("saves"),
		session.WithRetry(cfg.AutosaveRetries, cfg.AutosaveBackoff))
	sessions := session.NewRegistry(engine, saves, logger.WithPrefix("session"), cfg.Seed)
	handler := api.NewHandler(sessions, logger.WithPrefix("api"))

	server := &http.Server{
		Addr:         cfg.Addr,
		Handler:      api.NewRouter(handler, cfg.CORSOrigins),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("server starting", "addr", cfg.Addr, "db", cfg.DBPath)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	logger.Info("server stopped")
	return nil
}
