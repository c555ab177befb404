// AngelaMos | 2026
// provision.go

package provision

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/alwaysdemon/storefront/internal/config"
)

type AdminEnsurer interface {
	EnsureAdmin(ctx context.Context, cfg config.BootstrapConfig) (bool, error)
}

type CatalogSeeder interface {
	SeedDefaults(ctx context.Context) (int, error)
}

// Run creates the bootstrap admin and the starter catalog. Both steps are
// idempotent so it is safe on every deploy.
func Run(
	ctx context.Context,
	cfg *config.Config,
	admins AdminEnsurer,
	catalog CatalogSeeder,
	logger *slog.Logger,
) error {
	if err := Admin(ctx, cfg.Bootstrap, admins, logger); err != nil {
		return err
	}
	return Catalog(ctx, cfg.Catalog, catalog, logger)
}

func Admin(
	ctx context.Context,
	cfg config.BootstrapConfig,
	admins AdminEnsurer,
	logger *slog.Logger,
) error {
	if !cfg.Enabled() {
		logger.Warn("bootstrap admin not configured, no admin account provisioned")
		return nil
	}

	created, err := admins.EnsureAdmin(ctx, cfg)
	if err != nil {
		return fmt.Errorf("bootstrap admin: %w", err)
	}

	logger.Info("bootstrap admin checked",
		"username", cfg.AdminUsername,
		"created", created,
	)
	return nil
}

// Catalog inserts the starter products only into an empty catalog.
func Catalog(
	ctx context.Context,
	cfg config.CatalogConfig,
	catalog CatalogSeeder,
	logger *slog.Logger,
) error {
	if !cfg.SeedDefaults {
		return nil
	}

	inserted, err := catalog.SeedDefaults(ctx)
	if err != nil {
		return fmt.Errorf("seed catalog: %w", err)
	}

	logger.Info("starter catalog checked", "inserted", inserted)
	return nil
}
