package bootstrap

import (
	"context"
	"fmt"
	"log"

	"github.com/go-authgate/authchain/internal/cache"
	"github.com/go-authgate/authchain/internal/config"
	"github.com/go-authgate/authchain/internal/core"
	"github.com/go-authgate/authchain/internal/metrics"
	"github.com/go-authgate/authchain/internal/usercache"
)

// userCache is the credential cache together with its lifecycle.
type userCache interface {
	core.CredentialCache
	Health(ctx context.Context) error
	Close() error
}

// initializeMetrics initializes Prometheus metrics
func initializeMetrics(cfg *config.Config) metrics.Recorder {
	prometheusMetrics := metrics.Init(cfg.MetricsEnabled)
	if cfg.MetricsEnabled {
		log.Println("Prometheus metrics initialized")
	} else {
		log.Println("Metrics disabled (using noop implementation)")
	}
	return prometheusMetrics
}

// initializeMetricsCache initializes the metrics cache based on configuration
func initializeMetricsCache(
	ctx context.Context,
	cfg *config.Config,
) (core.Cache[int64], func() error, error) {
	if !cfg.MetricsEnabled || !cfg.MetricsGaugeUpdateEnabled {
		return nil, nil, nil
	}

	// Create timeout context for cache initialization
	ctx, cancel := context.WithTimeout(ctx, cfg.CacheInitTimeout)
	defer cancel()

	var metricsCache core.Cache[int64]
	var err error

	switch cfg.MetricsCacheType {
	case config.MetricsCacheTypeRedisAside:
		metricsCache, err = cache.NewRueidisAsideCache[int64](
			ctx,
			cfg.RedisAddr,
			cfg.RedisPassword,
			cfg.RedisDB,
			"authchain:metrics:",
			cfg.MetricsCacheClientTTL,
			cfg.MetricsCacheSizePerConn,
		)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize redis-aside metrics cache: %w", err)
		}
		log.Printf(
			"Metrics cache: redis-aside (addr=%s, db=%d, client_ttl=%s, cache_size_per_conn=%dMB)",
			cfg.RedisAddr,
			cfg.RedisDB,
			cfg.MetricsCacheClientTTL,
			cfg.MetricsCacheSizePerConn,
		)

	case config.MetricsCacheTypeRedis:
		metricsCache, err = cache.NewRueidisCache[int64](
			ctx,
			cfg.RedisAddr,
			cfg.RedisPassword,
			cfg.RedisDB,
			"authchain:metrics:",
		)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize redis metrics cache: %w", err)
		}
		log.Printf("Metrics cache: redis (addr=%s, db=%d)", cfg.RedisAddr, cfg.RedisDB)

	default: // memory
		metricsCache = cache.NewMemoryCache[int64]()
		log.Println("Metrics cache: memory (single instance only)")
	}

	return metricsCache, metricsCache.Close, nil
}

// initializeUserCache initializes the credential cache. "none" disables caching.
func initializeUserCache(ctx context.Context, cfg *config.Config) (userCache, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.CacheInitTimeout)
	defer cancel()

	switch cfg.UserCacheType {
	case config.UserCacheTypeNone:
		log.Println("User cache: disabled (every login reaches the backend)")
		return usercache.Null(), nil

	case config.UserCacheTypeRedisAside:
		c, err := cache.NewRueidisAsideCache[core.Identity](
			ctx,
			cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB,
			"authchain:users:",
			cfg.UserCacheClientTTL,
			cfg.UserCacheSizePerConn,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize redis-aside user cache: %w", err)
		}
		log.Printf(
			"User cache: redis-aside (addr=%s, db=%d, ttl=%s, client_ttl=%s, cache_size_per_conn=%dMB)",
			cfg.RedisAddr,
			cfg.RedisDB,
			cfg.UserCacheTTL,
			cfg.UserCacheClientTTL,
			cfg.UserCacheSizePerConn,
		)
		return usercache.New(c, cfg.UserCacheTTL), nil

	case config.UserCacheTypeRedis:
		c, err := cache.NewRueidisCache[core.Identity](
			ctx,
			cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB,
			"authchain:users:",
		)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize redis user cache: %w", err)
		}
		log.Printf("User cache: redis (addr=%s, db=%d, ttl=%s)", cfg.RedisAddr, cfg.RedisDB, cfg.UserCacheTTL)
		return usercache.New(c, cfg.UserCacheTTL), nil

	default: // memory
		log.Printf("User cache: memory (single instance only, ttl=%s)", cfg.UserCacheTTL)
		return usercache.New(cache.NewMemoryCache[core.Identity](), cfg.UserCacheTTL), nil
	}
}
