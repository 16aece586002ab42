package main

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/99minutos/accounts-api/internal/api/handler"
	"github.com/99minutos/accounts-api/internal/core/ports"
	"github.com/99minutos/accounts-api/internal/infrastructure/db/relational"
	"github.com/99minutos/accounts-api/internal/pkg/config"
	"github.com/99minutos/accounts-api/pkg/logger"

	mongostore "github.com/99minutos/accounts-api/internal/infrastructure/db/mongo"
	redisstore "github.com/99minutos/accounts-api/internal/infrastructure/db/redis"
)

// setup loads configuration and initialises the process logger.
func setup(ctx context.Context) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, zerolog.Nop(), err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "accounts-api",
	})
	return cfg, log, nil
}

// accountStore is the opened account repository plus its backing handle.
type accountStore struct {
	repo ports.AccountRepository

	sql   *sqlx.DB
	mongo *mongo.Client
}

// openStore connects to the store selected by STORE_DRIVER. Schema setup
// runs when migrate is true.
func openStore(ctx context.Context, cfg *config.Config, log zerolog.Logger, migrate bool) (*accountStore, error) {
	switch cfg.Store.Driver {
	case config.StoreDriverMongo:
		client, db, err := mongostore.Connect(ctx, mongostore.Config{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
		})
		if err != nil {
			return nil, err
		}
		repo := mongostore.NewAccountRepository(db)
		if migrate {
			if err := repo.EnsureIndexes(ctx); err != nil {
				_ = client.Disconnect(context.Background())
				return nil, fmt.Errorf("mongo indexes: %w", err)
			}
			log.Info().Str("database", cfg.Mongo.Database).Msg("mongo indexes ensured")
		}
		return &accountStore{repo: repo, mongo: client}, nil

	case config.StoreDriverPostgres, config.StoreDriverSQLite:
		db, err := relational.Open(ctx, relational.Config{
			Driver: cfg.Store.Driver,
			DSN:    cfg.Store.DatabaseURL,
		})
		if err != nil {
			return nil, err
		}
		if migrate {
			if err := relational.Migrate(ctx, db, cfg.Store.Driver); err != nil {
				_ = db.Close()
				return nil, err
			}
			log.Info().Str("driver", cfg.Store.Driver).Msg("migrations applied")
		}
		return &accountStore{repo: relational.NewAccountRepository(db), sql: db}, nil
	}
	return nil, fmt.Errorf("unsupported store driver %q", cfg.Store.Driver)
}

func (s *accountStore) Close(ctx context.Context) error {
	if s.mongo != nil {
		return s.mongo.Disconnect(ctx)
	}
	if s.sql != nil {
		return s.sql.Close()
	}
	return nil
}

// openIdempotency connects to Redis when REDIS_ADDR is set. With no address
// it returns a nil store and Idempotency-Key headers are ignored.
func openIdempotency(ctx context.Context, cfg *config.Config, log zerolog.Logger) (ports.IdempotencyStore, handler.PingFunc, func() error, error) {
	if cfg.Redis.Addr == "" {
		log.Info().Msg("REDIS_ADDR not set, idempotency keys disabled")
		return nil, nil, func() error { return nil }, nil
	}

	client, err := redisstore.Connect(ctx, redisstore.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return nil, nil, nil, err
	}

	ping := func(ctx context.Context) error { return client.Ping(ctx).Err() }
	return redisstore.NewIdempotencyStore(client, cfg.Redis.IdempotencyTTL), ping, client.Close, nil
}
