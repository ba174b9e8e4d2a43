package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/icco/lateshow/handlers"
	"github.com/icco/lateshow/lib/config"
	"github.com/icco/lateshow/lib/db"
	"github.com/icco/lateshow/lib/lock"
	"github.com/icco/lateshow/lib/store"
	"github.com/urfave/cli/v3"
	"gorm.io/gorm"
)

func main() {
	root := &cli.Command{
		Name:  "lateshow",
		Usage: "Late Show episodes, guests and appearances API",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Usage: "YAML config file", Sources: cli.EnvVars("LATESHOW_CONFIG")},
			&cli.StringFlag{Name: "addr", Usage: "HTTP listen address"},
			&cli.StringFlag{Name: "db-path", Usage: "SQLite database path"},
			&cli.StringFlag{Name: "log-level", Usage: "debug, info, warn or error"},
		},
		Commands: []*cli.Command{
			serveCommand(),
			seedCommand(),
		},
		Action: runServer,
	}

	if err := root.Run(context.Background(), os.Args); err != nil {
		slog.Error("Command failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:   "serve",
		Usage:  "Run the HTTP server",
		Action: runServer,
	}
}

func seedCommand() *cli.Command {
	return &cli.Command{
		Name:  "seed",
		Usage: "Replace all data with the sample show",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "lock-dir", Usage: "directory for the seed lock file"},
			&cli.DurationFlag{Name: "lock-timeout", Value: 30 * time.Second, Usage: "how long to wait for another seed"},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg, logger, err := setup(c)
			if err != nil {
				return err
			}

			gormDB, err := openDatabase(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer closeDatabase(gormDB, logger)

			s := store.New(gormDB, logger)
			fl := lock.NewFileLock(c.String("lock-dir"), logger)
			err = fl.Do(ctx, "seed", c.Duration("lock-timeout"), func() error {
				return s.Seed(ctx)
			})
			if err != nil {
				return fmt.Errorf("failed to seed database: %w", err)
			}

			logger.Info("Seeded database", slog.String("path", cfg.DBPath))
			return nil
		},
	}
}

// setup resolves configuration and installs the JSON logger as the default.
func setup(c *cli.Command) (config.Config, *slog.Logger, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return config.Config{}, nil, err
	}

	if c.IsSet("addr") {
		cfg.Addr = c.String("addr")
	}
	if c.IsSet("db-path") {
		cfg.DBPath = c.String("db-path")
	}
	if c.IsSet("log-level") {
		cfg.LogLevel = c.String("log-level")
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, nil, err
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.Level(),
	}))
	slog.SetDefault(logger)
	return cfg, logger, nil
}

func openDatabase(ctx context.Context, cfg config.Config, logger *slog.Logger) (*gorm.DB, error) {
	logger.Info("Connecting to database", slog.String("path", cfg.DBPath))
	gormDB, err := db.Open(cfg.DBPath, logger)
	if err != nil {
		return nil, err
	}
	if err := db.RunMigrations(ctx, gormDB, logger); err != nil {
		closeDatabase(gormDB, logger)
		return nil, err
	}
	return gormDB, nil
}

func closeDatabase(gormDB *gorm.DB, logger *slog.Logger) {
	sqlDB, err := gormDB.DB()
	if err != nil {
		return
	}
	if err := sqlDB.Close(); err != nil {
		logger.Error("Failed to close database", slog.Any("error", err))
	}
}

func runServer(ctx context.Context, c *cli.Command) error {
	cfg, logger, err := setup(c)
	if err != nil {
		return err
	}

	gormDB, err := openDatabase(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeDatabase(gormDB, logger)

	router := handlers.NewRouter(store.New(gormDB, logger))
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting server", slog.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case sig := <-sigCh:
		logger.Info("Shutting down", slog.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	logger.Info("Server stopped")
	return nil
}
