package clientstore

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/extra/redisprometheus/v9"
	"github.com/redis/go-redis/v9"

	"jobboard-client/internal/config"
	"jobboard-client/internal/metrics"
)

const redisPingTimeout = 5 * time.Second

// NewProvider returns the store selected by storage.type.
func NewProvider(cfg *config.Config, logger *slog.Logger) (*Store, error) {
	switch cfg.Storage.Type {
	case "redis":
		client := NewRedisClient(cfg.Redis, logger)

		ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
		defer cancel()
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("redis connection failed: %w", err)
		}

		if cfg.Server.Debug != nil && cfg.Server.Debug.Enabled {
			collector := redisprometheus.NewCollector(metrics.Namespace, "client_store", client)
			if err := prometheus.Register(collector); err != nil {
				logger.Debug("failed to register redis client store collector: already registered", "error", err)
			}
		}

		return NewRedisStore(client, cfg.Storage.Prefix, logger), nil
	case "bolt", "":
		logger.Debug("Opening client store", "path", cfg.Storage.Path)
		return NewBoltStore(cfg.Storage.Path, logger)
	case "memory":
		logger.Warn("Client store is in memory; the redirect target and session cookies are lost on exit")
		return NewMemoryStore(logger), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedStore, cfg.Storage.Type)
	}
}

func NewRedisClient(cfg *config.RedisConfig, logger *slog.Logger) *redis.Client {
	if cfg.Sentinel != nil {
		logger.Info("connecting to redis via sentinel",
			"master", cfg.Sentinel.MasterName,
			"sentinels", cfg.Sentinel.SentinelAddresses)

		return redis.NewFailoverClient(&redis.FailoverOptions{
			MasterName:       cfg.Sentinel.MasterName,
			SentinelAddrs:    cfg.Sentinel.SentinelAddresses,
			SentinelUsername: cfg.Sentinel.SentinelUsername,
			SentinelPassword: cfg.Sentinel.SentinelPassword,
			Username:         cfg.Username,
			Password:         cfg.Password,
			DB:               cfg.Index,
			MinIdleConns:     1,
		})
	}

	return redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Username:     cfg.Username,
		Password:     cfg.Password,
		DB:           cfg.Index,
		MinIdleConns: 1,
	})
}
