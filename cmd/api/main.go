package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/keshan-spec/Discussion-Board-API/internal/config"
	"github.com/keshan-spec/Discussion-Board-API/internal/database"
	"github.com/keshan-spec/Discussion-Board-API/internal/logging"
	"github.com/keshan-spec/Discussion-Board-API/internal/server"
)

var (
	seedPassword string
	seedPosts    int

	rootCmd = &cobra.Command{
		Use:   "api",
		Short: "Discussion board API server",
	}

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE:  runServe,
	}

	migrateCmd = &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDatabase(func(_ config.Config, log *slog.Logger, db database.Service) error {
				if err := database.Migrate(db.GetDB()); err != nil {
					return err
				}
				log.Info("migration complete")
				return nil
			})
		},
	}

	seedCmd = &cobra.Command{
		Use:   "seed",
		Short: "Load demo users, posts and comments into an empty database",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDatabase(func(_ config.Config, log *slog.Logger, db database.Service) error {
				if err := database.Migrate(db.GetDB()); err != nil {
					return err
				}
				return database.Seed(db.GetDB(), seedPassword, seedPosts, log)
			})
		},
	}
)

func init() {
	seedCmd.Flags().StringVar(&seedPassword, "password", os.Getenv("SEED_PASSWORD"), "password given to every seeded user")
	seedCmd.Flags().IntVar(&seedPosts, "posts", 4, "number of posts to create")
	rootCmd.AddCommand(serveCmd, migrateCmd, seedCmd)
	// plain `api` serves, matching the container entrypoint
	rootCmd.RunE = runServe
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error executing command: %v", err)
	}
}

func withDatabase(fn func(config.Config, *slog.Logger, database.Service) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := logging.Setup(cfg.LogLevel, cfg.LogFormat)

	db, err := database.New(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("close database", "error", err)
		}
	}()
	return fn(cfg, logger, db)
}

func runServe(cmd *cobra.Command, args []string) error {
	return withDatabase(func(cfg config.Config, log *slog.Logger, db database.Service) error {
		if err := database.Migrate(db.GetDB()); err != nil {
			return err
		}

		srv, err := server.New(cfg, log, db)
		if err != nil {
			return err
		}
		defer srv.Close()

		httpServer := srv.HTTPServer()
		errCh := make(chan error, 1)
		go func() {
			log.Info("server listening", "addr", httpServer.Addr)
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}

		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Error("shutdown", "error", err)
		}
		return nil
	})
}
