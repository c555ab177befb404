// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alwaysdemon/storefront/internal/app"
	"github.com/alwaysdemon/storefront/internal/config"
	"github.com/alwaysdemon/storefront/internal/server"
)

// drainDelay gives load balancers time to see /readyz fail before the
// listener closes.
const drainDelay = 5 * time.Second

func main() {
	configPath := flag.String("config", "", "path to a YAML config file; env vars override it")
	flag.Parse()

	if err := run(*configPath); err != nil {
		slog.Error("storefront api exited", "error", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := app.NewLogger(os.Stdout, cfg.Log, cfg.App)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("build application: %w", err)
	}

	srv, err := start(ctx, cfg, application, logger)
	if err != nil {
		return errors.Join(err, application.Close(context.Background()))
	}

	serveErr := make(chan error, 1)
	go func() { serveErr <- srv.Start() }()

	select {
	case err := <-serveErr:
		return errors.Join(err, application.Close(context.Background()))
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	return shutdown(cfg.Server, srv, application, logger)
}

func start(
	ctx context.Context,
	cfg *config.Config,
	application *app.App,
	logger *slog.Logger,
) (*server.Server, error) {
	if err := application.Provision(ctx); err != nil {
		return nil, err
	}

	srv := server.New(server.Config{
		ServerConfig:  cfg.Server,
		HealthHandler: application.Health,
		Logger:        logger,
	})
	application.Mount(srv.Router())

	logger.Info("storefront api ready",
		"version", cfg.App.Version,
		"store", cfg.Store.Driver,
		"token_strategy", cfg.Auth.TokenStrategy,
		"addr", cfg.Server.Address(),
	)
	return srv, nil
}

func shutdown(
	cfg config.ServerConfig,
	srv *server.Server,
	application *app.App,
	logger *slog.Logger,
) error {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout+drainDelay)
	defer cancel()

	var errs []error
	if err := srv.Shutdown(ctx, drainDelay); err != nil {
		errs = append(errs, err)
	}
	if err := application.Close(ctx); err != nil {
		errs = append(errs, err)
	}

	logger.Info("storefront api stopped")
	return errors.Join(errs...)
}
