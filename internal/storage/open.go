package storage

import (
	"context"
	"fmt"

	"go.uber.org/multierr"

	"github.com/angelmondragon/shopcart-backend/pkg/config"
	"github.com/angelmondragon/shopcart-backend/pkg/db"
	"github.com/angelmondragon/shopcart-backend/pkg/enums"
	"github.com/angelmondragon/shopcart-backend/pkg/logger"
	"github.com/angelmondragon/shopcart-backend/pkg/migrate"
	"github.com/angelmondragon/shopcart-backend/pkg/redis"
)

// Pinger is implemented by backends that can report reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Backend bundles the selected store with the connections it owns.
type Backend struct {
	Store  BlobStore
	Driver enums.StorageDriver
	DB     *db.Client
	Redis  *redis.Client
}

// Open connects the backend selected by cfg.Storage.Driver.
func Open(ctx context.Context, cfg *config.Config, logg *logger.Logger) (*Backend, error) {
	driver := cfg.Storage.StorageDriver()
	backend := &Backend{Driver: driver}

	switch driver {
	case enums.StorageDriverMemory:
		backend.Store = NewMemoryStore()

	case enums.StorageDriverSQLite, enums.StorageDriverPostgres:
		client, err := db.New(ctx, driver, cfg.DB, logg)
		if err != nil {
			return nil, fmt.Errorf("opening %s storage: %w", driver, err)
		}
		backend.DB = client
		if err := migrate.MaybeRun(ctx, cfg, logg, client); err != nil {
			return nil, multierr.Append(err, backend.Close())
		}
		store, err := NewGormStore(client)
		if err != nil {
			return nil, multierr.Append(err, backend.Close())
		}
		backend.Store = store

	case enums.StorageDriverRedis:
		client, err := redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			return nil, fmt.Errorf("opening redis storage: %w", err)
		}
		backend.Redis = client
		store, err := NewRedisStore(client, cfg.Storage.CartID)
		if err != nil {
			return nil, multierr.Append(err, backend.Close())
		}
		backend.Store = store

	default:
		return nil, fmt.Errorf("unsupported storage driver %q", driver)
	}

	return backend, nil
}

// Pingers returns the health checks for the connections the backend owns.
func (b *Backend) Pingers() map[string]Pinger {
	checks := map[string]Pinger{}
	if b.DB != nil {
		checks["database"] = b.DB
	}
	if b.Redis != nil {
		checks["redis"] = b.Redis
	}
	return checks
}

// Close releases every connection and reports all failures.
func (b *Backend) Close() error {
	var err error
	if b.DB != nil {
		err = multierr.Append(err, b.DB.Close())
	}
	if b.Redis != nil {
		err = multierr.Append(err, b.Redis.Close())
	}
	return err
}
