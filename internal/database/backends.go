package database

import (
	"context"
	"fmt"

	"github.com/atakamran/liftlegends-sub000/internal/backend"
	"github.com/atakamran/liftlegends-sub000/internal/config"
	"go.uber.org/zap"
)

// ConnectBackends opens every backend the config names and returns them in
// a registry. The returned close function releases all connections.
func ConnectBackends(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*backend.Registry, func(), error) {
	var (
		backends []backend.Backend
		closers  []func()
	)
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	if cfg.PostgresEnabled() {
		pool, err := ConnectPostgres(ctx, cfg.DBUrl)
		if err != nil {
			closeAll()
			return nil, nil, err
		}
		closers = append(closers, pool.Close)
		backends = append(backends, backend.NewPostgres(pool))
		logger.Info("backend connected", zap.String("backend", backend.PostgresName))
	}

	if cfg.MongoEnabled() {
		db, err := ConnectMongo(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			closeAll()
			return nil, nil, err
		}
		closers = append(closers, func() {
			if err := db.Client().Disconnect(context.Background()); err != nil {
				logger.Warn("disconnect mongodb", zap.Error(err))
			}
		})

		mongoBackend := backend.NewMongo(db)
		if err := mongoBackend.EnsureIndexes(ctx); err != nil {
			closeAll()
			return nil, nil, fmt.Errorf("ensure mongodb indexes: %w", err)
		}
		backends = append(backends, mongoBackend)
		logger.Info("backend connected", zap.String("backend", backend.MongoName), zap.String("database", cfg.MongoDB))
	}

	if len(backends) == 0 {
		return nil, nil, fmt.Errorf("no backend configured")
	}
	return backend.NewRegistry(backends...), closeAll, nil
}
