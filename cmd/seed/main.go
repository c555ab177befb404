// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/alwaysdemon/storefront/internal/app"
	"github.com/alwaysdemon/storefront/internal/auth"
	"github.com/alwaysdemon/storefront/internal/config"
	"github.com/alwaysdemon/storefront/internal/provision"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	genKeys := flag.Bool("gen-keys", false, "write a new ES256 key pair to the configured JWT key paths and exit")
	flag.Parse()

	logger := app.NewLogger(os.Stderr, config.LogConfig{Level: "info", Format: "text"}, config.AppConfig{})

	if err := run(*configPath, *genKeys, logger); err != nil {
		logger.Error("seed failed", "error", err)
		os.Exit(1)
	}
}

func run(configPath string, genKeys bool, logger *slog.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if genKeys {
		return generateKeys(logger)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	application, err := app.New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer application.Close(ctx) //nolint:errcheck // process exits right after

	if err := provision.Run(ctx, cfg, application.Auth, application.Products, logger); err != nil {
		return err
	}

	logger.Info("provisioning complete", "store", cfg.Store.Driver)
	return nil
}

// generateKeys reads only the key paths from the environment since a full
// config load would fail before any key exists.
func generateKeys(logger *slog.Logger) error {
	privatePath := envOr("JWT_PRIVATE_KEY_PATH", "keys/private.pem")
	publicPath := envOr("JWT_PUBLIC_KEY_PATH", "keys/public.pem")

	if err := auth.GenerateKeyPair(privatePath, publicPath); err != nil {
		return fmt.Errorf("generate key pair: %w", err)
	}

	logger.Info("key pair written", "private", privatePath, "public", publicPath)
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
