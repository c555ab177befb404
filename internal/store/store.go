// AngelaMos | 2026
// store.go

package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/alwaysdemon/storefront/internal/config"
	"github.com/alwaysdemon/storefront/internal/contact"
	"github.com/alwaysdemon/storefront/internal/core"
	"github.com/alwaysdemon/storefront/internal/health"
	"github.com/alwaysdemon/storefront/internal/inquiry"
	"github.com/alwaysdemon/storefront/internal/product"
	"github.com/alwaysdemon/storefront/internal/user"
)

// Store bundles the repositories of one backing driver together with the
// handle used to ping and close it.
type Store struct {
	Driver    string
	Users     user.Repository
	Products  product.Repository
	Contacts  contact.Repository
	Inquiries inquiry.Repository

	// DBStats is set only for the postgres driver.
	DBStats func() sql.DBStats

	checker health.Checker
	closer  func() error
}

func (s *Store) Checker() health.NamedChecker {
	return health.NamedChecker{Name: s.Driver, Checker: s.checker}
}

func (s *Store) Ping(ctx context.Context) error {
	return s.checker.Ping(ctx)
}

func (s *Store) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer()
}

func Open(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
) (*Store, error) {
	switch cfg.Store.Driver {
	case config.StoreFile, "":
		return openFile(cfg.Store, logger)
	case config.StorePostgres:
		return openPostgres(ctx, cfg, logger)
	case config.StoreMongo:
		return openMongo(ctx, cfg, logger)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

func openFile(cfg config.StoreConfig, logger *slog.Logger) (*Store, error) {
	fs, err := core.NewFileStore(cfg.FilePath)
	if err != nil {
		return nil, err
	}

	logger.Info("file store opened", "path", fs.Path())

	return &Store{
		Driver:    config.StoreFile,
		Users:     user.NewFileRepository(fs),
		Products:  product.NewFileRepository(fs),
		Contacts:  contact.NewFileRepository(fs),
		Inquiries: inquiry.NewFileRepository(fs),
		checker:   fs,
		closer:    fs.Close,
	}, nil
}

func openPostgres(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
) (*Store, error) {
	db, err := core.NewDatabase(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	logger.Info("database connected",
		"max_open_conns", cfg.Database.MaxOpenConns,
		"max_idle_conns", cfg.Database.MaxIdleConns,
	)

	if cfg.Store.AutoMigrate {
		if err := core.Migrate(ctx, db.DB); err != nil {
			_ = db.Close() //nolint:errcheck // cleanup on migration failure
			return nil, err
		}
		logger.Info("database migrations applied")
	}

	return &Store{
		Driver:    config.StorePostgres,
		Users:     user.NewRepository(db.DB),
		Products:  product.NewRepository(db.DB),
		Contacts:  contact.NewRepository(db.DB),
		Inquiries: inquiry.NewRepository(db.DB),
		DBStats:   db.Stats,
		checker:   db,
		closer:    db.Close,
	}, nil
}

func openMongo(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
) (*Store, error) {
	m, err := core.NewMongo(ctx, cfg.Mongo)
	if err != nil {
		return nil, err
	}

	logger.Info("mongo connected", "database", cfg.Mongo.Database)

	if cfg.Store.AutoMigrate {
		if err := ensureMongoIndexes(ctx, m); err != nil {
			_ = m.Close() //nolint:errcheck // cleanup on index failure
			return nil, err
		}
		logger.Info("mongo indexes ensured")
	}

	return &Store{
		Driver:    config.StoreMongo,
		Users:     user.NewMongoRepository(m.DB),
		Products:  product.NewMongoRepository(m.DB),
		Contacts:  contact.NewMongoRepository(m.DB),
		Inquiries: inquiry.NewMongoRepository(m.DB),
		checker:   m,
		closer:    m.Close,
	}, nil
}

func ensureMongoIndexes(ctx context.Context, m *core.Mongo) error {
	for _, ensure := range []func(context.Context, *mongo.Database) error{
		user.EnsureMongoIndexes,
		product.EnsureMongoIndexes,
		inquiry.EnsureMongoIndexes,
	} {
		if err := ensure(ctx, m.DB); err != nil {
			return err
		}
	}
	return nil
}
