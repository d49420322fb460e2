package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bissquit/bloodbridge/internal/config"
	"github.com/bissquit/bloodbridge/internal/donors"
	donorsmongo "github.com/bissquit/bloodbridge/internal/donors/mongodb"
	donorspostgres "github.com/bissquit/bloodbridge/internal/donors/postgres"
	"github.com/bissquit/bloodbridge/internal/events"
	eventsmongo "github.com/bissquit/bloodbridge/internal/events/mongodb"
	eventspostgres "github.com/bissquit/bloodbridge/internal/events/postgres"
	"github.com/bissquit/bloodbridge/internal/identity"
	identitymongo "github.com/bissquit/bloodbridge/internal/identity/mongodb"
	identitypostgres "github.com/bissquit/bloodbridge/internal/identity/postgres"
	"github.com/bissquit/bloodbridge/internal/inventory"
	inventorymongo "github.com/bissquit/bloodbridge/internal/inventory/mongodb"
	inventorypostgres "github.com/bissquit/bloodbridge/internal/inventory/postgres"
	"github.com/bissquit/bloodbridge/internal/pkg/metrics"
	"github.com/bissquit/bloodbridge/internal/pkg/mongodb"
	"github.com/bissquit/bloodbridge/internal/pkg/postgres"
	"github.com/bissquit/bloodbridge/internal/requests"
	requestsmongo "github.com/bissquit/bloodbridge/internal/requests/mongodb"
	requestspostgres "github.com/bissquit/bloodbridge/internal/requests/postgres"
	"github.com/prometheus/client_golang/prometheus"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// store bundles the repositories of one backend with its lifecycle hooks.
type store struct {
	identity  identity.Repository
	requests  requests.Repository
	inventory inventory.Repository
	donors    donors.Repository
	events    events.Repository

	ping  func(ctx context.Context) error
	close func(ctx context.Context) error
}

func openStore(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (*store, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		return openPostgres(ctx, cfg, logger)
	case config.DriverMongo:
		return openMongo(ctx, cfg, logger)
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}

func openPostgres(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (*store, error) {
	db, err := postgres.Connect(ctx, postgres.Config{
		URL:             cfg.URL,
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
		ConnectAttempts: cfg.ConnectAttempts,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	if cfg.Migrate {
		if err := postgres.Migrate(cfg.URL, cfg.MigrationsPath); err != nil {
			db.Close()
			return nil, err
		}
		logger.Info("database migrations applied", "source", cfg.MigrationsPath)
	}

	poolCollector := metrics.NewPoolCollector(db)
	if err := prometheus.Register(poolCollector); err != nil {
		// Only the first pool in a process is exported.
		logger.Warn("database pool metrics not registered", "error", err)
	}

	return &store{
		identity:  identitypostgres.NewRepository(db),
		requests:  requestspostgres.NewRepository(db),
		inventory: inventorypostgres.NewRepository(db),
		donors:    donorspostgres.NewRepository(db),
		events:    eventspostgres.NewRepository(db),
		ping:      db.Ping,
		close: func(context.Context) error {
			prometheus.Unregister(poolCollector)
			db.Close()
			return nil
		},
	}, nil
}

func openMongo(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (*store, error) {
	db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:             cfg.URL,
		Database:        cfg.Name,
		MaxOpenConns:    cfg.MaxOpenConns,
		ConnectTimeout:  cfg.ConnectTimeout,
		ConnectAttempts: cfg.ConnectAttempts,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to mongo: %w", err)
	}

	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		_ = db.Client().Disconnect(ctx)
		return nil, err
	}
	logger.Info("mongo indexes ensured", "database", cfg.Name)

	client := db.Client()
	return &store{
		identity:  identitymongo.NewRepository(db),
		requests:  requestsmongo.NewRepository(db),
		inventory: inventorymongo.NewRepository(db),
		donors:    donorsmongo.NewRepository(db),
		events:    eventsmongo.NewRepository(db),
		ping: func(ctx context.Context) error {
			return client.Ping(ctx, readpref.Primary())
		},
		close: client.Disconnect,
	}, nil
}
