package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"asset-core/core/config"
	"asset-core/core/database"
	"asset-core/core/logger"
	"asset-core/core/mapper"
	"asset-core/core/storage"
	"asset-core/feature/integrity"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// environment is the shared state every command builds from configuration.
type environment struct {
	cfg    *config.Config
	log    *zap.Logger
	client storage.Client
	db     *gorm.DB
	mapper *mapper.Map
	store  mapper.Store
}

// bootstrap loads configuration, connects backends and loads the identity manifest.
func bootstrap(ctx context.Context) (*environment, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	client, err := storage.NewClient(cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	// Connect to Database (Optional unless it backs the manifest)
	var db *gorm.DB
	if conn, err := database.Connect(cfg.Database); err != nil {
		if cfg.Mapper.Backend == mapper.BackendDatabase {
			return nil, fmt.Errorf("database connection required: %w", err)
		}
		logg.Warn("Optional database connection failed", zap.Error(err))
	} else {
		db = conn
		logg.Info("Connected to database", zap.String("driver", cfg.Database.Driver))
	}

	store, err := mapper.NewStore(cfg.Mapper, db, client, cfg.Storage.Bucket)
	if err != nil {
		return nil, err
	}
	if dbStore, ok := store.(*mapper.DBStore); ok {
		if err := dbStore.Migrate(ctx); err != nil {
			return nil, err
		}
	}

	m := mapper.New(logg)
	report, err := m.Load(ctx, store)
	switch {
	case errors.Is(err, mapper.ErrManifestNotFound):
		logg.Info("No asset manifest yet", zap.String("backend", cfg.Mapper.Backend))
	case err != nil:
		return nil, err
	default:
		logg.Info("Asset manifest loaded",
			zap.String("backend", cfg.Mapper.Backend),
			zap.Int("entries", report.Added),
			zap.Int("inconsistencies", len(report.Inconsistencies)),
		)
	}

	return &environment{
		cfg:    cfg,
		log:    logg,
		client: client,
		db:     db,
		mapper: m,
		store:  store,
	}, nil
}

// integrityOptions wires the integrity feature to env. ttl is the reconcile index lifetime.
func (env *environment) integrityOptions(ttl time.Duration) integrity.Options {
	return integrity.Options{
		Client:   env.client,
		Bucket:   env.cfg.Storage.Bucket,
		Prefix:   env.cfg.Storage.Prefix,
		Manifest: env.cfg.Mapper.ObjectName,
		Mapper:   env.mapper,
		Store:    env.store,
		DB:       env.db,
		ReadOnly: env.cfg.Server.ReadOnly(),
		CacheTTL: ttl,
	}
}
