package cli

import (
	"context"
	"fmt"

	"github.com/IWTDPLZZZ/Habit-Tracker/cache"
	"github.com/IWTDPLZZZ/Habit-Tracker/config"
	"github.com/IWTDPLZZZ/Habit-Tracker/db"
	"github.com/IWTDPLZZZ/Habit-Tracker/middleware"
	"github.com/IWTDPLZZZ/Habit-Tracker/services"
	"github.com/IWTDPLZZZ/Habit-Tracker/storage"
	"go.uber.org/zap"
)

// backend хранит выбранное конфигом хранилище и то, что ещё оно может обслуживать.
type backend struct {
	store   storage.Store
	limiter middleware.Counter // запросы считает только Redis
	close   func() error
}

func openBackend(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*backend, error) {
	switch cfg.Storage.Driver {
	case config.DriverMemory:
		s := storage.NewMemoryStore()
		return &backend{store: s, close: s.Close}, nil

	case config.DriverSQLite, config.DriverPostgres:
		conn, err := db.Open(cfg, logger)
		if err != nil {
			return nil, err
		}
		s := db.NewKVStore(conn)
		return &backend{store: s, close: s.Close}, nil

	case config.DriverRedis:
		s, err := cache.Connect(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
		return &backend{store: s, limiter: s, close: s.Close}, nil
	}
	return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
}

// withTracker открывает хранилище, вызывает fn с трекером и закрывает его.
func withTracker(ctx context.Context, opts *RootOptions, fn func(*services.Tracker) error) error {
	b, err := openBackend(ctx, opts.cfg, opts.logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := b.close(); err != nil {
			opts.logger.Warn("store_close_failed", zap.Error(err))
		}
	}()
	return fn(services.NewTracker(b.store, opts.logger))
}
