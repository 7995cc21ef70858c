package bootstrap

import (
	"context"
	"net/http"

	"github.com/go-authgate/authchain/internal/auth"
	"github.com/go-authgate/authchain/internal/config"
	"github.com/go-authgate/authchain/internal/core"
	"github.com/go-authgate/authchain/internal/filterchain"
	"github.com/go-authgate/authchain/internal/metrics"
	"github.com/go-authgate/authchain/internal/store"

	"github.com/appleboy/graceful"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// Application holds all initialized components
type Application struct {
	Config *config.Config

	// Core infrastructure
	DB                   *store.Store
	MetricsRecorder      metrics.Recorder
	MetricsCache         core.Cache[int64]
	MetricsCacheCloser   func() error
	UserCache            userCache
	RateLimitRedisClient *redis.Client

	// Authentication
	Backend  core.CredentialBackend
	Provider *auth.Provider
	Manager  *auth.Manager

	// HTTP
	Selector    *filterchain.Selector
	ChainPolicy filterchain.NoMatchPolicy
	Router      *gin.Engine
	Server      *http.Server
}

// Run initializes and starts the application
func Run(ctx context.Context, cfg *config.Config) error {
	app := &Application{Config: cfg}

	// Phase 1: Validate configuration
	if err := validateAllConfiguration(cfg); err != nil {
		return err
	}

	// Phase 2: Initialize infrastructure
	if err := app.initializeInfrastructure(ctx); err != nil {
		return err
	}

	// Phase 3: Initialize business layer
	if err := app.initializeBusinessLayer(); err != nil {
		return err
	}

	// Phase 4: Initialize HTTP layer
	if err := app.initializeHTTPLayer(); err != nil {
		return err
	}

	// Phase 5: Start server with graceful shutdown
	app.startWithGracefulShutdown()

	return nil
}

// initializeInfrastructure sets up database, metrics, caches, and Redis
func (app *Application) initializeInfrastructure(ctx context.Context) error {
	var err error

	// Database
	app.DB, err = initializeDatabase(ctx, app.Config)
	if err != nil {
		return err
	}

	// Metrics
	app.MetricsRecorder = initializeMetrics(app.Config)
	app.MetricsCache, app.MetricsCacheCloser, err = initializeMetricsCache(ctx, app.Config)
	if err != nil {
		return err
	}

	// Credential cache
	app.UserCache, err = initializeUserCache(ctx, app.Config)
	if err != nil {
		return err
	}

	// Redis (for rate limiting)
	app.RateLimitRedisClient, err = initializeRateLimitRedisClient(ctx, app.Config)
	if err != nil {
		return err
	}

	return nil
}

// initializeBusinessLayer wires the credential backend, provider and manager
func (app *Application) initializeBusinessLayer() error {
	var err error

	app.Backend, err = initializeCredentialBackend(app.Config, app.DB)
	if err != nil {
		return err
	}

	app.Provider, app.Manager, err = initializeAuthentication(
		app.Config,
		app.Backend,
		app.UserCache,
		app.MetricsRecorder,
	)
	return err
}

// initializeHTTPLayer sets up filter chains, router, and server
func (app *Application) initializeHTTPLayer() error {
	rateLimiters, err := setupRateLimiting(app.Config, app.RateLimitRedisClient)
	if err != nil {
		return err
	}

	registry, err := buildFilterRegistry(app.Config, app.Manager, rateLimiters)
	if err != nil {
		return err
	}

	app.Selector, app.ChainPolicy, err = initializeFilterChains(app.Config, registry)
	if err != nil {
		return err
	}

	app.Router = setupRouter(app.Config, app.routeDeps())
	app.Server = createHTTPServer(app.Config, app.Router)
	return nil
}

// startWithGracefulShutdown starts the server and handles graceful shutdown
func (app *Application) startWithGracefulShutdown() {
	m := graceful.NewManager()

	// Add jobs
	addServerRunningJob(m, app.Server)
	addServerShutdownJob(m, app.Config, app.Server)
	addRedisClientShutdownJob(m, app.RateLimitRedisClient)
	addMetricsGaugeUpdateJob(m, app.Config, app.DB, app.MetricsRecorder, app.MetricsCache)
	addCacheCleanupJob(m, "Metrics cache", app.MetricsCacheCloser)
	addCacheCleanupJob(m, "User cache", app.UserCache.Close)
	addDatabaseShutdownJob(m, app.DB)

	// Wait for graceful shutdown
	<-m.Done()
}
