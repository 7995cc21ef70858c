package bootstrap

import (
	"fmt"
	"log"

	"github.com/go-authgate/authchain/internal/config"
	"github.com/go-authgate/authchain/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// rateLimitFilters holds the per-IP limiters offered to filter chains
type rateLimitFilters struct {
	login gin.HandlerFunc
	api   gin.HandlerFunc
}

// setupRateLimiting creates the rate limiting filters. When rate limiting is
// disabled they do nothing, so chain definitions referencing them stay valid.
func setupRateLimiting(cfg *config.Config, redisClient *redis.Client) (rateLimitFilters, error) {
	if !cfg.EnableRateLimit {
		log.Println("Rate limiting disabled")
		noop := func(*gin.Context) {}
		return rateLimitFilters{login: noop, api: noop}, nil
	}

	log.Printf("Rate limiting enabled (store: %s)", cfg.RateLimitStore)

	storeType := middleware.RateLimitStoreType(cfg.RateLimitStore)
	if storeType == middleware.RateLimitStoreRedis {
		log.Printf("Using shared Redis client for rate limiting")
	} else {
		log.Printf("In-memory rate limiting configured (single instance only)")
	}

	createLimiter := func(requestsPerMinute int, name string) (gin.HandlerFunc, error) {
		limiter, err := middleware.NewRateLimiter(middleware.RateLimitConfig{
			RequestsPerMinute: requestsPerMinute,
			StoreType:         storeType,
			RedisClient:       redisClient, // nil for memory store
			CleanupInterval:   cfg.RateLimitCleanupInterval,
			Prefix:            "authchain:ratelimit:" + name,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create %s rate limiter: %w", name, err)
		}
		return limiter, nil
	}

	login, err := createLimiter(cfg.LoginRateLimit, "login")
	if err != nil {
		return rateLimitFilters{}, err
	}
	api, err := createLimiter(cfg.APIRateLimit, "api")
	if err != nil {
		return rateLimitFilters{}, err
	}
	return rateLimitFilters{login: login, api: api}, nil
}
